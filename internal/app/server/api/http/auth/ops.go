package auth

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) sendOTPOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-send-otp",
		Method:      http.MethodPost,
		Path:        h.prefix + "/auth/send-otp",
		Summary:     "Отправить одноразовый код на email",
		Description: "Creates the account on first use.",
		Tags:        []string{"auth"},
		Middlewares: h.public,
	}
}

func (h *Handler) verifyOTPOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-verify-otp",
		Method:      http.MethodPost,
		Path:        h.prefix + "/auth/verify-otp",
		Summary:     "Обменять код на сессию",
		Tags:        []string{"auth"},
		Middlewares: h.public,
	}
}

func (h *Handler) logoutOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-logout",
		Method:      http.MethodPost,
		Path:        h.prefix + "/auth/logout",
		Summary:     "Завершить сессию",
		Tags:        []string{"auth"},
		Security:    bearer,
		Middlewares: h.protected,
	}
}

func (h *Handler) sessionOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-session",
		Method:      http.MethodGet,
		Path:        h.prefix + "/auth/session",
		Summary:     "Текущий пользователь",
		Tags:        []string{"auth"},
		Security:    bearer,
		Middlewares: h.protected,
	}
}
