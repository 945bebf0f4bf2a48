package postgrest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"lifehub/internal/domain/resource"
	"lifehub/internal/infrastructure/supabase"
)

// Observer receives one call per store round trip.
type Observer interface {
	ObserveStore(table, op string, d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveStore(string, string, time.Duration, error) {}

// decodeRows decodes a JSON array of rows keeping numbers as json.Number.
func decodeRows(data []byte) ([]resource.Row, error) {
	rows := []resource.Row{}
	if len(bytes.TrimSpace(data)) == 0 {
		return rows, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}

func applyFilters(q *supabase.QueryBuilder, filters map[string]string) *supabase.QueryBuilder {
	cols := make([]string, 0, len(filters))
	for col := range filters {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	for _, col := range cols {
		q = q.Eq(col, filters[col])
	}
	return q
}
