package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"lifehub/internal/app/server/api/http/middleware/requestid"
)

// UseEnvelopeErrors makes huma build its own errors (request validation, body
// limits, malformed JSON) as *Error.
func UseEnvelopeErrors() {
	huma.NewError = fromHuma
}

func fromHuma(status int, msg string, errs ...error) huma.StatusError {
	ctx := context.Background()

	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return Validation(ctx, fieldErrors(msg, errs)...)
	case status == http.StatusUnauthorized:
		return Unauthorized(ctx, msg)
	case status == http.StatusNotFound:
		return NotFound(ctx, msg)
	case status == http.StatusTooManyRequests:
		return NewError(ctx, status, CodeRateLimited, msg, nil)
	case status >= http.StatusInternalServerError:
		return Internal(ctx, MsgInternal)
	default:
		return NewError(ctx, status, CodeValidation, msg, fieldErrors(msg, errs))
	}
}

func fieldErrors(msg string, errs []error) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, err := range errs {
		if err == nil {
			continue
		}
		var d huma.ErrorDetailer
		if errors.As(err, &d) {
			detail := d.ErrorDetail()
			out = append(out, FieldError{Message: detail.Message, Location: detail.Location})
			continue
		}
		out = append(out, FieldError{Message: err.Error()})
	}
	if len(out) == 0 && msg != "" {
		out = append(out, FieldError{Message: msg})
	}
	return out
}

// Transformer fills meta.requestId of errors created without a request context.
func Transformer(ctx huma.Context, _ string, v any) (any, error) {
	if e, ok := v.(*Error); ok && e.Meta.RequestID == "" {
		e.Meta.RequestID = requestid.FromContext(ctx.Context())
	}
	return v, nil
}

// WriteHuma пишет ошибку из huma middleware, до вызова обработчика
func WriteHuma(ctx huma.Context, e *Error) {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.SetStatus(e.status)
	_ = json.NewEncoder(ctx.BodyWriter()).Encode(e)
}
