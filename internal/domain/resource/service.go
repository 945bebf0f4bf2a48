package resource

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/exp/slog"

	"lifehub/internal/domain/session"
)

var columnName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// поля, которые клиент не может задать
var protectedFields = []string{IDColumn, OwnerColumn, itemID, itemOwner}

type Servicer interface {
	Definition() Definition
	List(ctx context.Context, opts ListOptions) ([]Item, error)
	Create(ctx context.Context, body map[string]any) (Item, error)
	Update(ctx context.Context, id string, body map[string]any) (Item, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	def   Definition
	repos RepositoryFactory
	log   *slog.Logger
}

func NewService(def Definition, repos RepositoryFactory, log *slog.Logger) *Service {
	return &Service{
		def:   def,
		repos: repos,
		log:   log.With(slog.String("component", "resource_service"), slog.String("table", def.Table)),
	}
}

func (s *Service) Definition() Definition {
	return s.def
}

func (s *Service) List(ctx context.Context, opts ListOptions) ([]Item, error) {
	caller, repo, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}

	q := ListOptions{
		OrderBy:   s.def.OrderBy,
		Ascending: s.def.Ascending,
		Filters:   make(map[string]string, len(opts.Filters)+1),
	}
	if opts.OrderBy != "" {
		q.OrderBy = opts.OrderBy
		q.Ascending = opts.Ascending
	}
	if !columnName.MatchString(q.OrderBy) {
		return nil, fmt.Errorf("%w: sort column %q", ErrInvalidInput, q.OrderBy)
	}
	for col, v := range opts.Filters {
		if !columnName.MatchString(col) {
			return nil, fmt.Errorf("%w: filter column %q", ErrInvalidInput, col)
		}
		q.Filters[col] = v
	}
	q.Filters[OwnerColumn] = caller.ID

	rows, err := repo.List(ctx, s.def.Table, q)
	if err != nil {
		s.log.Error("list failed", slog.String("user_id", caller.ID), slog.Any("error", err))
		return nil, fmt.Errorf("list %s: %w", s.def.Table, err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, s.def.toItem(row))
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, body map[string]any) (Item, error) {
	caller, repo, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}

	row := sanitize(body)
	if s.def.Normalize != nil {
		s.def.Normalize(row, true)
	}
	row[OwnerColumn] = caller.ID

	var stored Row
	if s.def.UpsertOn != "" {
		stored, err = repo.Upsert(ctx, s.def.Table, row, s.def.UpsertOn)
	} else {
		stored, err = repo.Insert(ctx, s.def.Table, row)
	}
	if err != nil {
		s.log.Error("create failed", slog.String("user_id", caller.ID), slog.Any("error", err))
		return nil, fmt.Errorf("create %s: %w", s.def.Singular, err)
	}

	return s.def.toItem(stored), nil
}

func (s *Service) Update(ctx context.Context, id string, body map[string]any) (Item, error) {
	caller, repo, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}

	patch := sanitize(body)
	if s.def.Normalize != nil {
		s.def.Normalize(patch, false)
	}
	if len(patch) == 0 {
		return nil, ErrEmptyUpdate
	}

	stored, err := repo.Update(ctx, s.def.Table, ownedBy(id, caller.ID), patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Debug("update matched no row", slog.String("id", id), slog.String("user_id", caller.ID))
			return nil, fmt.Errorf("update %s %s: %w", s.def.Singular, id, err)
		}
		s.log.Error("update failed", slog.String("id", id), slog.String("user_id", caller.ID), slog.Any("error", err))
		return nil, fmt.Errorf("update %s %s: %w", s.def.Singular, id, err)
	}

	return s.def.toItem(stored), nil
}

// Delete is idempotent: deleting a missing or foreign row succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	caller, repo, err := s.scope(ctx)
	if err != nil {
		return err
	}

	if err := repo.Delete(ctx, s.def.Table, ownedBy(id, caller.ID)); err != nil {
		s.log.Error("delete failed", slog.String("id", id), slog.String("user_id", caller.ID), slog.Any("error", err))
		return fmt.Errorf("delete %s %s: %w", s.def.Singular, id, err)
	}
	return nil
}

func (s *Service) scope(ctx context.Context) (session.Identity, Repository, error) {
	caller, ok := session.FromContext(ctx)
	if !ok {
		return session.Identity{}, nil, ErrNoIdentity
	}

	repo, err := s.repos.ForUser(ctx)
	if err != nil {
		return session.Identity{}, nil, fmt.Errorf("scoped repository: %w", err)
	}
	return caller, repo, nil
}

func ownedBy(id, owner string) map[string]string {
	return map[string]string{
		IDColumn:    id,
		OwnerColumn: owner,
	}
}

func sanitize(body map[string]any) Row {
	row := make(Row, len(body))
	for k, v := range body {
		row[k] = v
	}
	for _, f := range protectedFields {
		delete(row, f)
	}
	return row
}
