// Package recommend runs the full query pipeline: retrieve candidates, build
// the ranking prompt, invoke the generative re-ranker, interpret the result.
package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/domain"
	"github.com/kailas-cloud/cardex/internal/logger"
	"github.com/kailas-cloud/cardex/internal/metrics"
)

// Service produces explained recommendation sets for free-text queries.
type Service struct {
	retriever Retriever
	ranker    Ranker
}

// New creates a recommendation service.
func New(retriever Retriever, ranker Ranker) *Service {
	return &Service{retriever: retriever, ranker: ranker}
}

// Recommend executes one request end to end. All-or-nothing: either a full
// RecommendationSet (possibly no-match) or a typed error, never partial
// results. Steps are strictly sequential; all state is request-scoped.
func (s *Service) Recommend(
	ctx context.Context, query string, topK int,
) (domain.RecommendationSet, error) {
	log := logger.FromContext(ctx)

	candidates, err := s.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return domain.RecommendationSet{}, fmt.Errorf("retrieve candidates: %w", err)
	}

	// An empty candidate set cannot produce matches; skip the generation
	// round trip and answer no-match directly.
	if len(candidates) == 0 {
		metrics.RecommendationsTotal.WithLabelValues("no_match").Inc()
		log.Info("No candidates retrieved", zap.Int("top_k", topK))
		return domain.NoMatch(), nil
	}

	prompt := BuildPrompt(query, candidates)

	raw, err := s.ranker.Generate(ctx, prompt)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return domain.RecommendationSet{}, fmt.Errorf("rank candidates: %w", err)
	}

	set := Interpret(raw)
	if set.Matched {
		metrics.RecommendationsTotal.WithLabelValues("matched").Inc()
	} else {
		metrics.RecommendationsTotal.WithLabelValues("no_match").Inc()
	}

	log.Info("Recommendation completed",
		zap.Int("candidates", len(candidates)),
		zap.Bool("matched", set.Matched),
	)

	return set, nil
}
