package services

import (
	"time"

	"finbridge/internal/metrics"
	"finbridge/internal/personality"
)

// Option customises a service.
type Option func(*options)

type options struct {
	now     func() time.Time
	metrics *metrics.Metrics
	catalog *personality.Catalog
}

func buildOptions(opts []Option) options {
	o := options{
		now:     func() time.Time { return time.Now().UTC() },
		catalog: personality.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces the wall clock used for windows and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithMetrics records domain counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithCatalog swaps the archetype catalogue.
func WithCatalog(c *personality.Catalog) Option {
	return func(o *options) { o.catalog = c }
}
