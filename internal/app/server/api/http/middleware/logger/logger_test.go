package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestMiddleware_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	_, api := humatest.New(t)
	huma.Register(api, huma.Operation{
		OperationID: "fail",
		Method:      http.MethodGet,
		Path:        "/fail",
		Middlewares: huma.Middlewares{New(log).Middleware()},
	}, func(context.Context, *struct{}) (*struct{}, error) {
		return nil, huma.Error500InternalServerError("boom")
	})

	resp := api.Get("/fail")
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "HTTP request", line["msg"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/fail", line["path"])
	assert.Equal(t, float64(500), line["status"])
	assert.Equal(t, "http_logger", line["component"])
	assert.Contains(t, line, "request_id")
}
