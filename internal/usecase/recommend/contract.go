package recommend

import (
	"context"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// Retriever returns ranked raw candidates for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]domain.Candidate, error)
}

// Ranker is the remote generative re-ranker. No format compliance is
// guaranteed; interpretation must stay defensive.
type Ranker interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
