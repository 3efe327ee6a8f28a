package domain

import "fmt"

// SparseVector is a vocabulary-indexed term weighting. Indices and Values are
// parallel: Values[i] is the weight of vocabulary term Indices[i].
type SparseVector struct {
	Indices []int32
	Values  []float32
}

// Validate checks the parallel-array invariant.
func (s SparseVector) Validate() error {
	if len(s.Indices) != len(s.Values) {
		return fmt.Errorf("sparse vector: %d indices vs %d values", len(s.Indices), len(s.Values))
	}
	return nil
}

// IsZero reports whether the vector carries no terms.
func (s SparseVector) IsZero() bool {
	return len(s.Indices) == 0
}

// QueryVector pairs the dense and sparse encodings of one query string.
// Both halves must come from the same encoder configuration the catalog was
// built with; a mismatch skews relevance silently rather than failing.
type QueryVector struct {
	Dense  []float32
	Sparse SparseVector
}

// EmbeddingResult is a dense encoder response with token accounting.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
