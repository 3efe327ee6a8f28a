package retrieval

import (
	"context"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// DenseEncoder maps free text to a fixed-length vector in the catalog's
// embedding space.
type DenseEncoder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// SparseEncoder maps free text to a vocabulary-indexed term weighting.
// Encoding is local compute, hence no context.
type SparseEncoder interface {
	Encode(text string) (domain.SparseVector, error)
}

// CatalogIndex runs one fused dense+sparse nearest-neighbor query.
type CatalogIndex interface {
	Query(ctx context.Context, vec domain.QueryVector, topK int, includeMetadata bool) ([]domain.Candidate, error)
}
