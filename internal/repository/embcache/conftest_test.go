package embcache

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// mockEncoder implements denseEncoder for tests.
type mockEncoder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEncoder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

// mockStore implements the store consumer interface for tests.
type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func newTestCachedEncoder(t *testing.T, inner denseEncoder) (*CachedEncoder, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(inner, ms, nil, zap.NewNop()), ms
}
