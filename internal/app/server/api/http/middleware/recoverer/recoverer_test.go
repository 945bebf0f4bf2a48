package recoverer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestRecoverer(t *testing.T) {
	tests := []struct {
		name        string
		exposeStack bool
	}{
		{name: "development exposes panic details", exposeStack: true},
		{name: "production hides panic details", exposeStack: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(slog.Default(), tt.exposeStack)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				panic("kaboom")
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, http.StatusInternalServerError, rec.Code)

			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code    string        `json:"code"`
					Message string        `json:"message"`
					Details *panicDetails `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
			assert.Equal(t, "An unexpected error occurred", body.Error.Message)

			if tt.exposeStack {
				require.NotNil(t, body.Error.Details)
				assert.Equal(t, "kaboom", body.Error.Details.Panic)
				assert.NotEmpty(t, body.Error.Details.Stack)
			} else {
				assert.Nil(t, body.Error.Details)
			}
		})
	}
}

func TestRecoverer_AbortHandler(t *testing.T) {
	h := New(slog.Default(), true)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
