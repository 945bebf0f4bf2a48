package resource

import (
	"encoding/json"
	"strings"
)

const (
	IDColumn    = "id"
	OwnerColumn = "user_id"

	itemID    = "_id"
	itemOwner = "_uid"
)

// Row is a table row as the remote store returns it.
type Row map[string]any

// Item is a row reshaped for clients: the row plus _id and _uid mirrors.
type Item map[string]any

// ListOptions are list parameters: exact-match column filters and an order.
// From a caller an empty OrderBy means the definition's default order; the
// service resolves it before the options reach the repository.
type ListOptions struct {
	OrderBy   string
	Ascending bool
	Filters   map[string]string
}

// coerceBool accepts true and "true" as true, everything else as false
func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	}
	return false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	}
	return true
}

func stringBool(v any) string {
	if truthy(v) {
		return "true"
	}
	return "false"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
