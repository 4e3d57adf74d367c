package auth

import "time"

type Option func(*Options)

type Options struct {
	Secret   string
	TokenTTL time.Duration
}

func WithSecret(secret string) Option {
	return func(o *Options) {
		o.Secret = secret
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.TokenTTL = ttl
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TokenTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
