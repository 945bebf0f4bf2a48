package response

import (
	"context"
	"encoding/json"
	"net/http"
)

const (
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInvalidOTP    = "INVALID_OTP"
	CodeOTPSendFailed = "OTP_SEND_FAILED"
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeFetchFailed   = "FETCH_FAILED"
	CodeCreateFailed  = "CREATE_FAILED"
	CodeUpdateFailed  = "UPDATE_FAILED"
	CodeDeleteFailed  = "DELETE_FAILED"
	CodeUserNotFound  = "USER_NOT_FOUND"
	CodeInternal      = "INTERNAL_ERROR"
	CodeRateLimited   = "RATE_LIMITED"

	MsgInvalidRequest = "Invalid request data"
	MsgInternal       = "An unexpected error occurred"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error is the failure body of every endpoint. It satisfies huma.StatusError,
// so handlers return it as an error.
type Error struct {
	status  int
	Success bool      `json:"success"`
	Body    ErrorBody `json:"error"`
	Meta    Meta      `json:"meta"`
}

// FieldError is one entry of VALIDATION_ERROR details.
type FieldError struct {
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

func NewError(ctx context.Context, status int, code, message string, details any) *Error {
	return &Error{
		status: status,
		Body: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: NewMeta(ctx),
	}
}

func (e *Error) Error() string {
	return e.Body.Code + ": " + e.Body.Message
}

func (e *Error) GetStatus() int {
	return e.status
}

func Unauthorized(ctx context.Context, message string) *Error {
	return NewError(ctx, http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func NotFound(ctx context.Context, message string) *Error {
	return NewError(ctx, http.StatusNotFound, CodeNotFound, message, nil)
}

func Validation(ctx context.Context, details ...FieldError) *Error {
	var d any
	if len(details) > 0 {
		d = details
	}
	return NewError(ctx, http.StatusBadRequest, CodeValidation, MsgInvalidRequest, d)
}

func Internal(ctx context.Context, message string) *Error {
	return NewError(ctx, http.StatusInternalServerError, CodeInternal, message, nil)
}

// WriteHTTP пишет ошибку вне huma: 404 роутера, паники, лимитер
func WriteHTTP(w http.ResponseWriter, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.status)
	_ = json.NewEncoder(w).Encode(e)
}
