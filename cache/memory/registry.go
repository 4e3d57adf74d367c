package memory

import (
	"context"
	"sync"

	"github.com/filmflow/filmflow/cache"
)

type memoryRegistry struct {
	options  cache.Options
	versions map[string]int64
	mtx      sync.Mutex
}

func (r *memoryRegistry) Version(ctx context.Context, namespace string) (int64, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	version, ok := r.versions[namespace]
	if !ok {
		r.versions[namespace] = 1
		return 1, nil
	}

	return version, nil
}

func (r *memoryRegistry) Increment(ctx context.Context, namespace string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	version, ok := r.versions[namespace]
	if !ok {
		version = 1
	}

	r.versions[namespace] = version + 1

	return nil
}

func NewRegistry(opts ...cache.Option) cache.Registry {
	return &memoryRegistry{
		options:  cache.NewOptions(opts...),
		versions: map[string]int64{},
	}
}
