package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifehub/internal/app/server/api/http/middleware/requestid"
)

func TestOK(t *testing.T) {
	ctx := requestid.With(context.Background(), "req-1")

	env := OK(ctx, Message{Message: "done"})

	assert.True(t, env.Success)
	assert.Equal(t, "done", env.Data.Message)
	assert.Equal(t, "req-1", env.Meta.RequestID)
	_, err := time.Parse(timestampLayout, env.Meta.Timestamp)
	assert.NoError(t, err)
}

func TestWriteHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx := requestid.With(context.Background(), "req-2")

	WriteHTTP(rec, NotFound(ctx, "Endpoint not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]any{"code": "NOT_FOUND", "message": "Endpoint not found"}, body["error"])
	assert.Equal(t, "req-2", body["meta"].(map[string]any)["requestId"])
}

func TestFromHuma(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		msg        string
		errs       []error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation",
			status:     http.StatusUnprocessableEntity,
			msg:        "validation failed",
			errs:       []error{&huma.ErrorDetail{Message: "expected required property email to be present", Location: "body"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
			wantMsg:    MsgInvalidRequest,
		},
		{
			name:       "malformed json",
			status:     http.StatusBadRequest,
			msg:        "unable to parse body",
			errs:       []error{errors.New("unexpected EOF")},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
			wantMsg:    MsgInvalidRequest,
		},
		{
			name:       "too large",
			status:     http.StatusRequestEntityTooLarge,
			msg:        "request body is too large",
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   CodeValidation,
			wantMsg:    "request body is too large",
		},
		{
			name:       "internal",
			status:     http.StatusInternalServerError,
			msg:        "unexpected error occurred",
			errs:       []error{errors.New("nil pointer")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternal,
			wantMsg:    MsgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := fromHuma(tt.status, tt.msg, tt.errs...)

			e, ok := se.(*Error)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, e.GetStatus())
			assert.Equal(t, tt.wantCode, e.Body.Code)
			assert.Equal(t, tt.wantMsg, e.Body.Message)
		})
	}
}

func TestFromHuma_ValidationDetails(t *testing.T) {
	se := fromHuma(http.StatusUnprocessableEntity, "validation failed",
		&huma.ErrorDetail{Message: "expected string", Location: "body.email"})

	e := se.(*Error)
	assert.Equal(t, []FieldError{{Message: "expected string", Location: "body.email"}}, e.Body.Details)
}
