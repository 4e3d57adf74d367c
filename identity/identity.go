package identity

import "context"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the authenticated caller for the duration of one request. It
// is carried on the request context, never on shared state, so concurrent
// requests cannot observe each other's caller.
type Identity struct {
	ID   string
	Role string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
