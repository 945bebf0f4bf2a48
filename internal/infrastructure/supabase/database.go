package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// QueryBuilder собирает один запрос к PostgREST.
// Поддерживается только то, что нужно сервису: eq-фильтры, сортировка и upsert.
type QueryBuilder struct {
	client *Client
	table  string
	method string
	query  url.Values
	prefer []string
	body   []byte
	err    error
}

func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.method = http.MethodGet
	q.query.Set("select", columns)
	return q
}

func (q *QueryBuilder) Insert(values any) *QueryBuilder {
	q.method = http.MethodPost
	q.setBody(values)
	q.prefer = append(q.prefer, "return=representation")
	return q
}

// Upsert вставляет строку или сливает ее с существующей по колонкам onConflict
func (q *QueryBuilder) Upsert(values any, onConflict string) *QueryBuilder {
	q.method = http.MethodPost
	q.setBody(values)
	if onConflict != "" {
		q.query.Set("on_conflict", onConflict)
	}
	q.prefer = append(q.prefer, "resolution=merge-duplicates", "return=representation")
	return q
}

func (q *QueryBuilder) Update(values any) *QueryBuilder {
	q.method = http.MethodPatch
	q.setBody(values)
	q.prefer = append(q.prefer, "return=representation")
	return q
}

func (q *QueryBuilder) Delete() *QueryBuilder {
	q.method = http.MethodDelete
	q.prefer = append(q.prefer, "return=minimal")
	return q
}

func (q *QueryBuilder) Eq(column, value string) *QueryBuilder {
	q.query.Add(column, "eq."+value)
	return q
}

func (q *QueryBuilder) Order(column string, dir Direction) *QueryBuilder {
	if dir != Asc {
		dir = Desc
	}
	q.query.Set("order", column+"."+string(dir))
	return q
}

// Execute выполняет запрос и возвращает тело ответа как есть
func (q *QueryBuilder) Execute(ctx context.Context) ([]byte, error) {
	if q.err != nil {
		return nil, q.err
	}

	u := q.client.restURL + "/" + url.PathEscape(q.table)
	if len(q.query) > 0 {
		u += "?" + q.query.Encode()
	}

	var headers http.Header
	if len(q.prefer) > 0 {
		headers = http.Header{"Prefer": []string{strings.Join(q.prefer, ",")}}
	}

	data, _, err := q.client.do(ctx, q.method, u, q.body, headers)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", q.method, q.table, err)
	}

	return data, nil
}

func (q *QueryBuilder) ExecuteInto(ctx context.Context, dest any) error {
	data, err := q.Execute(ctx)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s response: %w", q.table, err)
	}
	return nil
}

func (q *QueryBuilder) setBody(values any) {
	b, err := json.Marshal(values)
	if err != nil {
		q.err = fmt.Errorf("encode %s body: %w", q.table, err)
		return
	}
	q.body = b
}
