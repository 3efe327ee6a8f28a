// Package retrieval turns free-text intent into ranked catalog candidates.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/domain"
	"github.com/kailas-cloud/cardex/internal/logger"
)

// DefaultTopK is the candidate count requested when the caller passes none.
const DefaultTopK = 10

// Service orchestrates the two encoders and the catalog index.
type Service struct {
	dense   DenseEncoder
	sparse  SparseEncoder
	catalog CatalogIndex
}

// New creates a retrieval service.
func New(dense DenseEncoder, sparse SparseEncoder, catalog CatalogIndex) *Service {
	return &Service{dense: dense, sparse: sparse, catalog: catalog}
}

// Retrieve encodes query with both encoders and issues one fused query.
// Candidates come back in the index's fused-score order; no local re-scoring.
func (s *Service) Retrieve(ctx context.Context, query string, topK int) ([]domain.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrEncoding, domain.ErrEmptyQuery)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	embResult, err := s.dense.Embed(ctx, query)
	if err != nil {
		// Transport errors arrive wrapped with domain.ErrEncoding already.
		return nil, fmt.Errorf("dense encode: %w", err)
	}

	sparse, err := s.sparse.Encode(query)
	if err != nil {
		return nil, fmt.Errorf("sparse encode: %v: %w", err, domain.ErrEncoding)
	}

	vec := domain.QueryVector{Dense: embResult.Embedding, Sparse: sparse}

	candidates, err := s.catalog.Query(ctx, vec, topK, true)
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}

	// The index owns fusion and ordering; only the count is enforced here.
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	logger.FromContext(ctx).Debug("Retrieval completed",
		zap.Int("top_k", topK),
		zap.Int("candidates", len(candidates)),
		zap.Int("sparse_terms", len(sparse.Indices)),
	)

	return candidates, nil
}
