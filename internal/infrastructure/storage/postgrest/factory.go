package postgrest

import (
	"context"

	"lifehub/internal/domain/resource"
	"lifehub/internal/domain/session"
	"lifehub/internal/infrastructure/supabase"
)

// Factory hands out repositories that talk to the store as the calling user,
// so the store's row level policies apply to every query.
type Factory struct {
	anon     *supabase.Client
	observer Observer
}

func NewFactory(anon *supabase.Client, observer Observer) *Factory {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Factory{
		anon:     anon,
		observer: observer,
	}
}

func (f *Factory) ForUser(ctx context.Context) (resource.Repository, error) {
	caller, ok := session.FromContext(ctx)
	if !ok {
		return nil, resource.ErrNoIdentity
	}

	return &RowRepository{
		client:   f.anon.WithToken(caller.Token),
		observer: f.observer,
	}, nil
}

// Client returns the store client scoped to the caller in ctx.
func (f *Factory) Client(ctx context.Context) (*supabase.Client, error) {
	caller, ok := session.FromContext(ctx)
	if !ok {
		return nil, resource.ErrNoIdentity
	}
	return f.anon.WithToken(caller.Token), nil
}
