package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"lifehub/internal/app/server/api/http/response"
	"lifehub/internal/domain/session"
	"lifehub/internal/domain/user"
)

type Handler struct {
	service   user.Servicer
	log       *slog.Logger
	prefix    string
	public    huma.Middlewares
	protected huma.Middlewares
}

// NewHandler: public применяется к send-otp и verify-otp, protected к logout и session
func NewHandler(service user.Servicer, log *slog.Logger, prefix string, public, protected huma.Middlewares) *Handler {
	return &Handler{
		service:   service,
		log:       log.With(slog.String("component", "auth_handler")),
		prefix:    prefix,
		public:    public,
		protected: protected,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.sendOTPOp(), h.sendOTP)
	huma.Register(api, h.verifyOTPOp(), h.verifyOTP)
	huma.Register(api, h.logoutOp(), h.logout)
	huma.Register(api, h.sessionOp(), h.getSession)
}

func (h *Handler) sendOTP(ctx context.Context, input *sendOTPInput) (*messageOutput, error) {
	if err := h.service.SendOTP(ctx, input.Body.Email); err != nil {
		return nil, h.fail(ctx, err)
	}

	return &messageOutput{
		Body: response.OK(ctx, response.Message{Message: "OTP sent to your email"}),
	}, nil
}

func (h *Handler) verifyOTP(ctx context.Context, input *verifyOTPInput) (*signInOutput, error) {
	in, err := h.service.VerifyOTP(ctx, input.Body.Email, input.Body.Code)
	if err != nil {
		return nil, h.fail(ctx, err)
	}

	return &signInOutput{
		Body: response.OK(ctx, SignInResponse{
			User: in.User,
			Session: Tokens{
				AccessToken:  in.Session.AccessToken,
				RefreshToken: in.Session.RefreshToken,
				ExpiresAt:    in.Session.ExpiresAt,
			},
		}),
	}, nil
}

func (h *Handler) logout(ctx context.Context, _ *struct{}) (*messageOutput, error) {
	caller, _ := session.FromContext(ctx)
	h.service.Logout(ctx, caller.Token)

	return &messageOutput{
		Body: response.OK(ctx, response.Message{Message: "Logged out successfully"}),
	}, nil
}

func (h *Handler) getSession(ctx context.Context, _ *struct{}) (*sessionOutput, error) {
	account, err := h.service.Session(ctx)
	if err != nil {
		return nil, h.fail(ctx, err)
	}

	return &sessionOutput{
		Body: response.OK(ctx, SessionResponse{User: *account}),
	}, nil
}

// fail переводит ошибки домена в конверт ошибки
func (h *Handler) fail(ctx context.Context, err error) error {
	var de *user.DomainError
	switch {
	case errors.As(err, &de) && errors.Is(err, user.ErrInvalidInput):
		return response.Validation(ctx, response.FieldError{Message: de.Message, Location: "body"})
	case errors.Is(err, user.ErrOTPSend):
		return response.NewError(ctx, http.StatusBadRequest, response.CodeOTPSendFailed, "Failed to send OTP", nil)
	case errors.Is(err, user.ErrInvalidOTP):
		return response.NewError(ctx, http.StatusBadRequest, response.CodeInvalidOTP, "Invalid or expired OTP", nil)
	case errors.Is(err, user.ErrNotFound):
		return response.NewError(ctx, http.StatusNotFound, response.CodeUserNotFound, "User profile not found", nil)
	case errors.Is(err, session.ErrInvalidToken):
		return response.Unauthorized(ctx, "Invalid or expired token")
	}

	h.log.Error("unexpected auth failure", slog.Any("error", err))
	return response.Internal(ctx, response.MsgInternal)
}
