package cache

import "context"

// NamespaceSemanticSearch covers every cached semantic search result. Any
// catalog mutation that changes embeddings must increment it.
const NamespaceSemanticSearch = "semantic_search"

// Registry tracks a monotonically increasing version counter per cache
// namespace. External caches include the version in their keys, so an
// increment invalidates everything cached under the namespace. Stale reads
// are acceptable; increments are atomic and raise the counter by exactly 1.
type Registry interface {
	Version(ctx context.Context, namespace string) (int64, error)
	Increment(ctx context.Context, namespace string) error
}
