package agent

import "context"

type Option func(*Options)

type Options struct {
	MaxIterations int
	SystemPrompt  string
	Context       context.Context
}

func WithMaxIterations(maxIterations int) Option {
	return func(o *Options) {
		o.MaxIterations = maxIterations
	}
}

func WithSystemPrompt(systemPrompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = systemPrompt
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxIterations: 8,
		Context:       context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
