package session

import "context"

// Identity is the caller resolved from a bearer token. It lives for one request.
type Identity struct {
	ID    string
	Email string
	Token string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.ID != ""
}
