// Package bm25 implements the query-side BM25 sparse encoder.
//
// The encoder must be fitted on the same corpus the catalog's sparse index
// was built from. To keep the two consistent, the fitted parameters are
// persisted as a JSON artifact at index-build time and reloaded here; ad-hoc
// refitting at query time would silently skew relevance.
package bm25

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// Default BM25 parameters.
const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
)

// Encoder maps free text to a vocabulary-indexed sparse vector.
// Safe for concurrent use after Fit or Load.
type Encoder struct {
	k1        float64
	b         float64
	avgDocLen float64
	numDocs   int
	vocab     map[string]int32
	docFreq   []int
	fitted    bool

	tokenPattern *regexp.Regexp
}

// New creates an unfitted encoder. Non-positive k1/b fall back to defaults.
func New(k1, b float64) *Encoder {
	if k1 <= 0 {
		k1 = DefaultK1
	}
	if b <= 0 {
		b = DefaultB
	}
	return &Encoder{
		k1:           k1,
		b:            b,
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+`),
	}
}

// Fit builds the vocabulary, document frequencies and length statistics from
// the corpus (one document per element).
func (e *Encoder) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus")
	}

	df := make(map[string]int)
	totalLen := 0
	for _, doc := range corpus {
		tokens := e.tokenize(doc)
		totalLen += len(tokens)
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return errors.New("no tokens found in corpus")
	}

	// Stable vocabulary ordering: index-build time and query time must agree.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e.vocab = make(map[string]int32, len(terms))
	e.docFreq = make([]int, len(terms))
	for i, term := range terms {
		e.vocab[term] = int32(i)
		e.docFreq[i] = df[term]
	}
	e.numDocs = len(corpus)
	e.avgDocLen = float64(totalLen) / float64(len(corpus))
	e.fitted = true
	return nil
}

// Encode produces the sparse weighting of text. Terms outside the fitted
// vocabulary are dropped; a query of only unknown terms yields a zero vector,
// which is valid (the dense half still carries signal).
func (e *Encoder) Encode(text string) (domain.SparseVector, error) {
	if !e.fitted {
		return domain.SparseVector{}, errors.New("bm25 encoder not fitted")
	}
	if strings.TrimSpace(text) == "" {
		return domain.SparseVector{}, errors.New("empty input")
	}

	tokens := e.tokenize(text)
	tf := make(map[int32]int)
	for _, tok := range tokens {
		if idx, ok := e.vocab[tok]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return domain.SparseVector{}, nil
	}

	indices := make([]int32, 0, len(tf))
	for idx := range tf {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	docLen := float64(len(tokens))
	values := make([]float32, len(indices))
	for i, idx := range indices {
		freq := float64(tf[idx])
		norm := freq * (e.k1 + 1) / (freq + e.k1*(1-e.b+e.b*docLen/e.avgDocLen))
		values[i] = float32(e.idf(idx) * norm)
	}

	return domain.SparseVector{Indices: indices, Values: values}, nil
}

// VocabularySize returns the number of fitted terms.
func (e *Encoder) VocabularySize() int {
	return len(e.vocab)
}

func (e *Encoder) idf(idx int32) float64 {
	df := float64(e.docFreq[idx])
	n := float64(e.numDocs)
	return math.Log(1 + (n-df+0.5)/(df+0.5))
}

func (e *Encoder) tokenize(text string) []string {
	return e.tokenPattern.FindAllString(strings.ToLower(text), -1)
}
