package googleai

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/domain"
	"github.com/kailas-cloud/cardex/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

// fakeModel implements llms.Model without a network.
type fakeModel struct {
	resp *llms.ContentResponse
	err  error
}

func (f *fakeModel) GenerateContent(
	_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption,
) (*llms.ContentResponse, error) {
	return f.resp, f.err
}

func (f *fakeModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", errors.New("not used")
}

func newTestRanker(model llms.Model) *Ranker {
	return &Ranker{
		client:  model,
		model:   "test-model",
		timeout: time.Second,
		logger:  zap.NewNop(),
	}
}

func TestGenerate_ReturnsText(t *testing.T) {
	r := newTestRanker(&fakeModel{resp: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "## Best Matches\n1. Toyota Fortuner"}},
	}})

	got, err := r.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "## Best Matches\n1. Toyota Fortuner" {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestGenerate_TransportError(t *testing.T) {
	r := newTestRanker(&fakeModel{err: errors.New("429 quota exceeded")})

	_, err := r.Generate(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	r := newTestRanker(&fakeModel{resp: &llms.ContentResponse{}})

	_, err := r.Generate(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration for empty choices, got %v", err)
	}
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse in chain, got %v", err)
	}
}
