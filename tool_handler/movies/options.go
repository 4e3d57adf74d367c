package movies

import (
	"context"

	"github.com/filmflow/filmflow/cache"
	"github.com/filmflow/filmflow/embedder"
	"github.com/filmflow/filmflow/search"
	"github.com/filmflow/filmflow/store"
)

type Option func(*Options)

type Options struct {
	Engine   *search.Engine
	Store    store.Store
	Embedder embedder.Embedder
	Cache    cache.Registry
	Context  context.Context
}

func WithEngine(engine *search.Engine) Option {
	return func(o *Options) {
		o.Engine = engine
	}
}

func WithStore(st store.Store) Option {
	return func(o *Options) {
		o.Store = st
	}
}

func WithEmbedder(em embedder.Embedder) Option {
	return func(o *Options) {
		o.Embedder = em
	}
}

func WithCache(registry cache.Registry) Option {
	return func(o *Options) {
		o.Cache = registry
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
