package auth

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"lifehub/internal/app/server/api/http/response"
	"lifehub/internal/domain/session"
)

const bearerPrefix = "Bearer "

type Auth struct {
	session session.Servicer
	log     *slog.Logger
}

func New(session session.Servicer, log *slog.Logger) *Auth {
	return &Auth{
		session: session,
		log:     log.With(slog.String("component", "auth_middleware")),
	}
}

// Middleware проверяет Bearer-токен у провайдера и кладет Identity в контекст запроса
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token, ok := strings.CutPrefix(ctx.Header("Authorization"), bearerPrefix)
		if !ok || token == "" {
			response.WriteHuma(ctx, response.Unauthorized(ctx.Context(), "Missing or invalid authorization header"))
			return
		}

		identity, err := a.session.Validate(ctx.Context(), token)
		if err != nil {
			a.log.Warn("token validation failed",
				slog.String("path", ctx.URL().Path),
				slog.Bool("expired", session.IsExpired(err)),
				slog.Any("error", err),
			)
			response.WriteHuma(ctx, response.Unauthorized(ctx.Context(), "Invalid or expired token"))
			return
		}

		next(huma.WithContext(ctx, session.WithIdentity(ctx.Context(), identity)))
	}
}
