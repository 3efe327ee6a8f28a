package bm25

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// artifact is the on-disk form of a fitted encoder.
type artifact struct {
	K1        float64        `json:"k1"`
	B         float64        `json:"b"`
	AvgDocLen float64        `json:"avg_doc_len"`
	NumDocs   int            `json:"num_docs"`
	DocFreq   map[string]int `json:"doc_freq"`
}

// Save writes the fitted parameters to path. The vocabulary order is implied
// by the sorted terms of doc_freq, so Save/Load round-trips exactly.
func (e *Encoder) Save(path string) error {
	if !e.fitted {
		return fmt.Errorf("bm25 encoder not fitted")
	}

	df := make(map[string]int, len(e.vocab))
	for term, idx := range e.vocab {
		df[term] = e.docFreq[idx]
	}
	data, err := json.Marshal(artifact{
		K1:        e.k1,
		B:         e.b,
		AvgDocLen: e.avgDocLen,
		NumDocs:   e.numDocs,
		DocFreq:   df,
	})
	if err != nil {
		return fmt.Errorf("marshal vocabulary: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(path), data, 0o644); err != nil {
		return fmt.Errorf("write vocabulary: %w", err)
	}
	return nil
}

// Load reads a fitted encoder from the artifact at path.
func Load(path string) (*Encoder, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	if a.NumDocs <= 0 || a.AvgDocLen <= 0 || len(a.DocFreq) == 0 {
		return nil, fmt.Errorf("vocabulary %s: incomplete artifact", path)
	}

	terms := make([]string, 0, len(a.DocFreq))
	for term := range a.DocFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e := New(a.K1, a.B)
	e.vocab = make(map[string]int32, len(terms))
	e.docFreq = make([]int, len(terms))
	for i, term := range terms {
		e.vocab[term] = int32(i)
		e.docFreq[i] = a.DocFreq[term]
	}
	e.avgDocLen = a.AvgDocLen
	e.numDocs = a.NumDocs
	e.fitted = true
	return e, nil
}
