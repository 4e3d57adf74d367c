package search

import "context"

const (
	// DefaultMaxScan bounds how many records the exact fallback loads into
	// memory.
	DefaultMaxScan = 1000
	// DefaultOversample multiplies the requested limit to size the native
	// search candidate pool.
	DefaultOversample = 20
	// DefaultMinCandidatePool is the floor for the candidate pool.
	DefaultMinCandidatePool = 100
)

type Option func(*Options)

type Options struct {
	MaxScan          int
	Oversample       int
	MinCandidatePool int
	Context          context.Context
}

func WithMaxScan(max int) Option {
	return func(o *Options) {
		o.MaxScan = max
	}
}

func WithOversample(factor int) Option {
	return func(o *Options) {
		o.Oversample = factor
	}
}

func WithMinCandidatePool(min int) Option {
	return func(o *Options) {
		o.MinCandidatePool = min
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxScan:          DefaultMaxScan,
		Oversample:       DefaultOversample,
		MinCandidatePool: DefaultMinCandidatePool,
		Context:          context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
