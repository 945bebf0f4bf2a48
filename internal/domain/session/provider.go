package session

import (
	"context"
	"time"
)

// User is an account as the identity provider reports it.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// Tokens is a session issued by the identity provider.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

// Provider is the remote identity provider.
type Provider interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*User, *Tokens, error)
	GetUser(ctx context.Context, token string) (*User, error)
	SignOut(ctx context.Context, token string) error
}
