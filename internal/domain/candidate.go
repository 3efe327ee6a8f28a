package domain

// Candidate is one retrieved listing with its catalog-side fused score.
// Candidates live for a single request and are ordered by descending score.
type Candidate struct {
	ID      string
	Score   float64
	Listing Listing
}
