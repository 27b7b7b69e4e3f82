package energy

import (
	"github.com/jonboulle/clockwork"

	"github.com/teranos/energydb/internal/observability"
)

type options struct {
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// Option configures a Loader or Aggregator.
type Option func(*options)

// WithMetrics records load and query metrics into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock sets the time source for load timestamps and durations.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = observability.NewMetrics()
	}
	if o.clock == nil {
		o.clock = clockwork.NewRealClock()
	}
	return o
}
