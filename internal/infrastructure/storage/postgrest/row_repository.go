package postgrest

import (
	"context"
	"errors"
	"time"

	"lifehub/internal/domain/resource"
	"lifehub/internal/infrastructure/supabase"
)

type RowRepository struct {
	client   *supabase.Client
	observer Observer
}

func (r *RowRepository) List(ctx context.Context, table string, q resource.ListOptions) ([]resource.Row, error) {
	qb := applyFilters(r.client.From(table).Select("*"), q.Filters)
	if q.OrderBy != "" {
		dir := supabase.Desc
		if q.Ascending {
			dir = supabase.Asc
		}
		qb = qb.Order(q.OrderBy, dir)
	}

	return r.rows(ctx, table, "list", qb)
}

func (r *RowRepository) Insert(ctx context.Context, table string, row resource.Row) (resource.Row, error) {
	return r.one(ctx, table, "insert", r.client.From(table).Insert(row))
}

func (r *RowRepository) Upsert(ctx context.Context, table string, row resource.Row, onConflict string) (resource.Row, error) {
	return r.one(ctx, table, "upsert", r.client.From(table).Upsert(row, onConflict))
}

func (r *RowRepository) Update(ctx context.Context, table string, filters map[string]string, patch resource.Row) (resource.Row, error) {
	return r.one(ctx, table, "update", applyFilters(r.client.From(table).Update(patch), filters))
}

func (r *RowRepository) Delete(ctx context.Context, table string, filters map[string]string) error {
	start := time.Now()
	_, err := applyFilters(r.client.From(table).Delete(), filters).Execute(ctx)
	r.observer.ObserveStore(table, "delete", time.Since(start), err)
	return err
}

func (r *RowRepository) rows(ctx context.Context, table, op string, qb *supabase.QueryBuilder) ([]resource.Row, error) {
	start := time.Now()
	data, err := qb.Execute(ctx)
	r.observer.ObserveStore(table, op, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return decodeRows(data)
}

// one returns the first row of a representation response; an empty
// representation means the filters matched nothing.
func (r *RowRepository) one(ctx context.Context, table, op string, qb *supabase.QueryBuilder) (resource.Row, error) {
	rows, err := r.rows(ctx, table, op, qb)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		if op == "update" {
			return nil, resource.ErrNotFound
		}
		return nil, errors.New(op + " returned no row")
	}
	return rows[0], nil
}
