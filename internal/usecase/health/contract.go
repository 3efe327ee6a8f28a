package health

import "context"

// CachePinger checks embedding cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EncoderChecker checks dense encoder provider availability.
type EncoderChecker interface {
	HealthCheck(ctx context.Context) error
}
