package catalog

import "github.com/kailas-cloud/cardex/internal/domain"

// queryRequest is the wire form of one fused query.
type queryRequest struct {
	Vector          []float32        `json:"vector"`
	SparseVector    *sparseVectorDTO `json:"sparseVector,omitempty"`
	TopK            int              `json:"topK"`
	IncludeMetadata bool             `json:"includeMetadata"`
	Namespace       string           `json:"namespace,omitempty"`
}

type sparseVectorDTO struct {
	Indices []int32   `json:"indices"`
	Values  []float32 `json:"values"`
}

func newQueryRequest(vec domain.QueryVector, topK int, includeMetadata bool, namespace string) queryRequest {
	req := queryRequest{
		Vector:          vec.Dense,
		TopK:            topK,
		IncludeMetadata: includeMetadata,
		Namespace:       namespace,
	}
	if !vec.Sparse.IsZero() {
		req.SparseVector = &sparseVectorDTO{
			Indices: vec.Sparse.Indices,
			Values:  vec.Sparse.Values,
		}
	}
	return req
}

// queryResponse is the wire form of the index's answer, ordered by descending
// fused score.
type queryResponse struct {
	Matches []match `json:"matches"`
}

type match struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata domain.Listing `json:"metadata"`
}

func (qr queryResponse) toCandidates() []domain.Candidate {
	out := make([]domain.Candidate, len(qr.Matches))
	for i, m := range qr.Matches {
		listing := m.Metadata
		if listing.ID == "" {
			listing.ID = m.ID
		}
		out[i] = domain.Candidate{ID: m.ID, Score: m.Score, Listing: listing}
	}
	return out
}
