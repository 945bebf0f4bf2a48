package response

import (
	"context"
	"time"

	"lifehub/internal/app/server/api/http/middleware/requestid"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

type Meta struct {
	Timestamp string `json:"timestamp" example:"2024-06-01T12:00:00.000Z"`
	RequestID string `json:"requestId,omitempty" doc:"Value of the X-Request-ID response header"`
}

// Envelope is the success body of every endpoint.
type Envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Meta    Meta `json:"meta"`
}

type Message struct {
	Message string `json:"message"`
}

func OK[T any](ctx context.Context, data T) Envelope[T] {
	return Envelope[T]{
		Success: true,
		Data:    data,
		Meta:    NewMeta(ctx),
	}
}

func NewMeta(ctx context.Context) Meta {
	return Meta{
		Timestamp: time.Now().UTC().Format(timestampLayout),
		RequestID: requestid.FromContext(ctx),
	}
}
