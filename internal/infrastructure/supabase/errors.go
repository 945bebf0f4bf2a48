package supabase

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Error is an error response from PostgREST or GoTrue.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Details    string
	Hint       string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a provider rejection of the credential.
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

func parseError(body []byte, status int) *Error {
	e := &Error{StatusCode: status}

	if !gjson.ValidBytes(body) {
		e.Message = strings.TrimSpace(string(body))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	}

	res := gjson.GetManyBytes(body, "message", "msg", "error_description", "error", "code", "error_code", "details", "hint")
	e.Message = firstNonEmpty(res[0].String(), res[1].String(), res[2].String(), res[3].String(), http.StatusText(status))
	e.Code = firstNonEmpty(res[4].String(), res[5].String())
	e.Details = res[6].String()
	e.Hint = res[7].String()

	return e
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
