package user

import "context"

type Repository interface {
	Upsert(ctx context.Context, p Profile) error
	Find(ctx context.Context, id string) (*Profile, error)
}
