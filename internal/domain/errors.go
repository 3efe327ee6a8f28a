package domain

import "errors"

var (
	// ErrEmptyQuery signals a query that is empty after trimming.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrEncoding signals that an encoder rejected or failed on the input.
	ErrEncoding = errors.New("query encoding failed")
	// ErrRetrievalUnavailable signals that the catalog index could not be
	// reached or rejected the query (connection, auth, timeout).
	ErrRetrievalUnavailable = errors.New("catalog index unavailable")
	// ErrGeneration signals a ranker transport failure (connection, auth,
	// timeout, quota).
	ErrGeneration = errors.New("ranker generation failed")
	// ErrMalformedResponse signals a ranker response with no usable text at
	// all (no choices). Always wrapped together with ErrGeneration.
	ErrMalformedResponse = errors.New("malformed ranker response")
)
