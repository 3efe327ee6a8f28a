// Package catalog is the client for the remote hybrid listing index.
//
// The index speaks a Pinecone-style data-plane contract: one POST /query
// carrying both the dense and the sparse query vector; fusion of the two
// signals is index-side, so the returned match order is authoritative and is
// never re-scored here.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/domain"
	"github.com/kailas-cloud/cardex/internal/metrics"
)

// Config holds catalog index connection settings.
type Config struct {
	URL       string
	APIKey    string
	Namespace string
	Timeout   time.Duration
	Logger    *zap.Logger

	// HTTPClient overrides the default client, for tests.
	HTTPClient *http.Client
}

// Repo queries the catalog index.
type Repo struct {
	baseURL   string
	apiKey    string
	namespace string
	timeout   time.Duration
	client    *http.Client
	logger    *zap.Logger
}

// New creates a catalog index client.
func New(cfg *Config) *Repo {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Repo{
		baseURL:   cfg.URL,
		apiKey:    cfg.APIKey,
		namespace: cfg.Namespace,
		timeout:   timeout,
		client:    client,
		logger:    cfg.Logger,
	}
}

// Query issues one fused nearest-neighbor query and returns candidates in the
// index's fused-score order (descending).
func (r *Repo) Query(
	ctx context.Context, vec domain.QueryVector, topK int, includeMetadata bool,
) ([]domain.Candidate, error) {
	if err := vec.Sparse.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEncoding, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := json.Marshal(newQueryRequest(vec, topK, includeMetadata, r.namespace))
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Api-Key", r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := r.client.Do(req)

	duration := time.Since(start)

	if err != nil {
		metrics.CatalogQueriesTotal.WithLabelValues("error").Inc()
		r.logger.Error("Catalog query failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, fmt.Errorf("catalog query: %v: %w", err, domain.ErrRetrievalUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.CatalogQueriesTotal.WithLabelValues("error").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog query status %d: %s: %w",
			resp.StatusCode, string(snippet), domain.ErrRetrievalUnavailable)
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		metrics.CatalogQueriesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode query response: %v: %w", err, domain.ErrRetrievalUnavailable)
	}

	metrics.CatalogQueriesTotal.WithLabelValues("success").Inc()
	metrics.CatalogQueryDuration.Observe(duration.Seconds())

	r.logger.Debug("Catalog query completed",
		zap.Duration("duration", duration),
		zap.Int("matches", len(qr.Matches)),
	)

	return qr.toCandidates(), nil
}
