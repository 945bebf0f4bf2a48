package auth

import (
	"lifehub/internal/app/server/api/http/response"
	"lifehub/internal/domain/user"
)

type sendOTPInput struct {
	Body struct {
		Email string `json:"email" format:"email" example:"ann@example.com" doc:"Адрес, на который отправляется код"`
	}
}

type verifyOTPInput struct {
	Body struct {
		Email string `json:"email" format:"email" example:"ann@example.com"`
		Code  string `json:"code" example:"123456" doc:"Одноразовый код из письма"`
	}
}

type messageOutput struct {
	Body response.Envelope[response.Message]
}

type signInOutput struct {
	Body response.Envelope[SignInResponse]
}

type sessionOutput struct {
	Body response.Envelope[SessionResponse]
}

type SignInResponse struct {
	User    user.Account `json:"user"`
	Session Tokens       `json:"session"`
}

type SessionResponse struct {
	User user.Account `json:"user"`
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at" doc:"Unix seconds"`
}
