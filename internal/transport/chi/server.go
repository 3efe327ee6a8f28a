// Package chi is the HTTP boundary: request decoding, domain-error mapping,
// auth. No retrieval or ranking logic lives here.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/domain"
	healthuc "github.com/kailas-cloud/cardex/internal/usecase/health"
)

// Recommender runs the full recommendation pipeline for a query.
type Recommender interface {
	Recommend(ctx context.Context, query string, topK int) (domain.RecommendationSet, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes the recommendation pipeline over HTTP.
type Server struct {
	recommender   Recommender
	health        HealthChecker
	logger        *zap.Logger
	defaultTopK   int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(recommender Recommender, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		recommender: recommender,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeEmptyQuery),
		sentinelHandler(domain.ErrEncoding, http.StatusBadGateway, codeEncodingFailed),
		sentinelHandler(domain.ErrRetrievalUnavailable, http.StatusBadGateway, codeCatalogUnavailable),
		sentinelHandler(domain.ErrGeneration, http.StatusBadGateway, codeGenerationFailed),
	}
	return s
}

// WithDefaultTopK sets the candidate count used when a request omits top_k.
func (s *Server) WithDefaultTopK(topK int) *Server {
	s.defaultTopK = topK
	return s
}

// Routes registers API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/recommendations", s.handleRecommendations)
	r.Get("/v1/examples", s.handleExamples)
	r.Get("/healthz", s.handleHealth)
}

type recommendationRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

type recommendationResponse struct {
	Matched         bool   `json:"matched"`
	Recommendations string `json:"recommendations"`
	Query           string `json:"query"`
}

// handleRecommendations handles POST /v1/recommendations.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.TopK < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "top_k must not be negative")
		return
	}

	topK := req.TopK
	if topK == 0 {
		topK = s.defaultTopK
	}

	set, err := s.recommender.Recommend(r.Context(), req.Query, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendationResponse{
		Matched:         set.Matched,
		Recommendations: set.Text,
		Query:           req.Query,
	})
}

// exampleQueries seed the empty state of any client UI.
var exampleQueries = []string{
	"I need a family SUV with 7 seats, automatic transmission, and good fuel economy under 5 million",
	"Looking for a luxury sedan with leather seats and sunroof in Islamabad",
	"I want a small hatchback for city driving with low maintenance cost and good mileage",
	"Need a 4x4 vehicle for off-road use with diesel engine and under 10 million budget",
}

// handleExamples handles GET /v1/examples.
func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"examples": exampleQueries})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeBadRequest         = "bad_request"
	codeEmptyQuery         = "empty_query"
	codeEncodingFailed     = "encoding_failed"
	codeCatalogUnavailable = "catalog_unavailable"
	codeGenerationFailed   = "generation_failed"
	codeInternalError      = "internal_error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrEncoding,
		domain.ErrRetrievalUnavailable,
		domain.ErrGeneration,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeDomainMessage(err))
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
