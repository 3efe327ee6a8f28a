// Package googleai is the generative re-ranker client backed by Gemini.
package googleai

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/domain"
	"github.com/kailas-cloud/cardex/internal/metrics"
)

// Ranker invokes the generative model with a ready-built prompt. It is a
// transport-only client: no retries, no streaming, no format enforcement —
// interpretation of the response belongs to the caller.
type Ranker struct {
	client  llms.Model
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds ranker client settings.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewRanker creates a Gemini-backed ranker client.
func NewRanker(ctx context.Context, cfg *Config) (*Ranker, error) {
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create googleai client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Ranker{
		client:  client,
		model:   cfg.Model,
		timeout: timeout,
		logger:  cfg.Logger,
	}, nil
}

// Generate sends the prompt and returns the raw response text.
// Temperature 0 keeps the ranking as reproducible as the model allows.
func (r *Ranker) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	start := time.Now()

	resp, err := r.client.GenerateContent(ctx, content,
		llms.WithModel(r.model),
		llms.WithTemperature(0.0),
	)

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(r.model, "error").Inc()
		r.logger.Error("Generation failed",
			zap.String("model", r.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return "", fmt.Errorf("generate: %v: %w", err, domain.ErrGeneration)
	}

	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(r.model, "error").Inc()
		return "", fmt.Errorf("empty generation response: %w: %w",
			domain.ErrMalformedResponse, domain.ErrGeneration)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(r.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(r.model).Observe(duration.Seconds())

	r.logger.Debug("Generation completed",
		zap.String("model", r.model),
		zap.Duration("duration", duration),
		zap.Int("response_chars", len(resp.Choices[0].Content)),
	)

	return resp.Choices[0].Content, nil
}
