package postgrest

import (
	"context"
	"time"

	"lifehub/internal/domain/user"
	"lifehub/internal/infrastructure/supabase"
)

const profilesTable = "profiles"

// ProfileRepository writes profiles with the service key (at sign-in there is
// no caller session yet) and reads them as the caller.
type ProfileRepository struct {
	admin    *supabase.Client
	scoped   *Factory
	observer Observer
}

func NewProfileRepository(admin *supabase.Client, scoped *Factory) *ProfileRepository {
	return &ProfileRepository{
		admin:    admin,
		scoped:   scoped,
		observer: scoped.observer,
	}
}

type profileRow struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      *string    `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (r *ProfileRepository) Upsert(ctx context.Context, p user.Profile) error {
	updated := p.UpdatedAt
	row := profileRow{
		ID:        p.ID,
		Email:     p.Email,
		UpdatedAt: &updated,
	}
	if p.Name != "" {
		row.Name = &p.Name
	}

	start := time.Now()
	_, err := r.admin.From(profilesTable).Upsert(row, "id").Execute(ctx)
	r.observer.ObserveStore(profilesTable, "upsert", time.Since(start), err)
	return err
}

func (r *ProfileRepository) Find(ctx context.Context, id string) (*user.Profile, error) {
	client, err := r.scoped.Client(ctx)
	if err != nil {
		return nil, err
	}

	var rows []profileRow
	start := time.Now()
	err = client.From(profilesTable).Select("*").Eq("id", id).ExecuteInto(ctx, &rows)
	r.observer.ObserveStore(profilesTable, "find", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, user.ErrNotFound
	}

	p := &user.Profile{
		ID:    rows[0].ID,
		Email: rows[0].Email,
	}
	if rows[0].Name != nil {
		p.Name = *rows[0].Name
	}
	if rows[0].CreatedAt != nil {
		p.CreatedAt = *rows[0].CreatedAt
	}
	if rows[0].UpdatedAt != nil {
		p.UpdatedAt = *rows[0].UpdatedAt
	}
	return p, nil
}
