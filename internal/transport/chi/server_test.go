package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/domain"
	healthuc "github.com/kailas-cloud/cardex/internal/usecase/health"
)

// --- Mocks ---

type mockRecommender struct {
	set      domain.RecommendationSet
	err      error
	gotQuery string
	gotTopK  int
}

func (m *mockRecommender) Recommend(
	_ context.Context, query string, topK int,
) (domain.RecommendationSet, error) {
	m.gotQuery = query
	m.gotTopK = topK
	return m.set, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

func newTestRouter(rec Recommender, h HealthChecker) http.Handler {
	srv := NewServer(rec, h, zap.NewNop())
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func postRecommendations(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/v1/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// --- Tests ---

func TestRecommendations_Matched(t *testing.T) {
	rec := &mockRecommender{set: domain.RecommendationSet{
		Matched: true,
		Text:    "## Top Picks\n1. Toyota Fortuner Legender",
	}}
	handler := newTestRouter(rec, &mockHealth{})

	rr := postRecommendations(t, handler, `{"query":"diesel SUV for northern areas","top_k":7}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp recommendationResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Matched {
		t.Error("matched = false, want true")
	}
	if resp.Recommendations != "## Top Picks\n1. Toyota Fortuner Legender" {
		t.Errorf("unexpected recommendations: %q", resp.Recommendations)
	}
	if resp.Query != "diesel SUV for northern areas" {
		t.Errorf("query echo = %q", resp.Query)
	}
	if rec.gotQuery != "diesel SUV for northern areas" || rec.gotTopK != 7 {
		t.Errorf("recommender called with (%q, %d)", rec.gotQuery, rec.gotTopK)
	}
}

func TestRecommendations_DefaultTopK(t *testing.T) {
	rec := &mockRecommender{set: domain.NoMatch()}
	srv := NewServer(rec, &mockHealth{}, zap.NewNop()).WithDefaultTopK(12)
	r := chi.NewRouter()
	srv.Routes(r)

	rr := postRecommendations(t, r, `{"query":"sedan"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rec.gotTopK != 12 {
		t.Errorf("topK = %d, want 12", rec.gotTopK)
	}
}

func TestRecommendations_NoMatch_200(t *testing.T) {
	rec := &mockRecommender{set: domain.NoMatch()}
	handler := newTestRouter(rec, &mockHealth{})

	rr := postRecommendations(t, handler, `{"query":"a flying car"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp recommendationResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Matched {
		t.Error("matched = true, want false")
	}
	if resp.Recommendations != "" {
		t.Errorf("recommendations = %q, want empty", resp.Recommendations)
	}
}

func TestRecommendations_EmptyQuery_400(t *testing.T) {
	rec := &mockRecommender{err: fmt.Errorf(
		"retrieve candidates: encode query: %w", fmt.Errorf("%w: %w", domain.ErrEncoding, domain.ErrEmptyQuery),
	)}
	handler := newTestRouter(rec, &mockHealth{})

	rr := postRecommendations(t, handler, `{"query":"   "}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeEmptyQuery {
		t.Errorf("error code = %s, want %s", errResp.Code, codeEmptyQuery)
	}
}

func TestRecommendations_CatalogDown_502(t *testing.T) {
	rec := &mockRecommender{err: fmt.Errorf(
		"retrieve candidates: %w", domain.ErrRetrievalUnavailable,
	)}
	handler := newTestRouter(rec, &mockHealth{})

	rr := postRecommendations(t, handler, `{"query":"family SUV"}`)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadGateway)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeCatalogUnavailable {
		t.Errorf("error code = %s, want %s", errResp.Code, codeCatalogUnavailable)
	}
}

func TestRecommendations_GenerationFailed_502(t *testing.T) {
	rec := &mockRecommender{err: fmt.Errorf("rank candidates: %w", domain.ErrGeneration)}
	handler := newTestRouter(rec, &mockHealth{})

	rr := postRecommendations(t, handler, `{"query":"family SUV"}`)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadGateway)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeGenerationFailed {
		t.Errorf("error code = %s, want %s", errResp.Code, codeGenerationFailed)
	}
}

func TestRecommendations_InvalidBody_400(t *testing.T) {
	handler := newTestRouter(&mockRecommender{}, &mockHealth{})

	rr := postRecommendations(t, handler, `{"query":`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestRecommendations_NegativeTopK_400(t *testing.T) {
	rec := &mockRecommender{}
	handler := newTestRouter(rec, &mockHealth{})

	rr := postRecommendations(t, handler, `{"query":"sedan","top_k":-1}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if rec.gotQuery != "" {
		t.Error("recommender should not have been called")
	}
}

func TestExamples(t *testing.T) {
	handler := newTestRouter(&mockRecommender{}, &mockHealth{})

	req := httptest.NewRequest("GET", "/v1/examples", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp map[string][]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp["examples"]) != 4 {
		t.Errorf("examples count = %d, want 4", len(resp["examples"]))
	}
}

func TestHealthz_Healthy(t *testing.T) {
	h := &mockHealth{report: healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"embedding": healthuc.CheckOK},
	}}
	handler := newTestRouter(&mockRecommender{}, h)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %s, want ok", resp.Status)
	}
}

func TestHealthz_Degraded_503(t *testing.T) {
	h := &mockHealth{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"cache": healthuc.CheckError},
	}}
	handler := newTestRouter(&mockRecommender{}, h)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
