package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

type Handler struct {
	log        *slog.Logger
	middleware huma.Middlewares
	now        func() time.Time
}

func NewHandler(log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		log:        log,
		middleware: middleware,
		now:        time.Now,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(_ context.Context, _ *struct{}) (*Output, error) {
	h.log.Debug("health check request received")

	return &Output{
		Body: Response{
			Status:    "ok",
			Timestamp: h.now().UTC().Format(timestampLayout),
		},
	}, nil
}
