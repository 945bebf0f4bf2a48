package identity

import (
	"context"
	"errors"

	"lifehub/internal/domain/session"
	"lifehub/internal/infrastructure/supabase"
)

// Provider adapts the GoTrue client to session.Provider.
type Provider struct {
	auth *supabase.AuthClient
}

func NewProvider(client *supabase.Client) *Provider {
	return &Provider{auth: client.Auth()}
}

func (p *Provider) SendOTP(ctx context.Context, email string) error {
	return p.auth.SendOTP(ctx, email)
}

func (p *Provider) VerifyOTP(ctx context.Context, email, code string) (*session.User, *session.Tokens, error) {
	s, err := p.auth.VerifyOTP(ctx, email, code)
	if err != nil {
		return nil, nil, err
	}
	if s.User == nil {
		return nil, nil, errors.New("verify otp: no user in session")
	}

	return toUser(s.User), &session.Tokens{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
	}, nil
}

func (p *Provider) GetUser(ctx context.Context, token string) (*session.User, error) {
	u, err := p.auth.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return toUser(u), nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	return p.auth.SignOut(ctx, token)
}

func toUser(u *supabase.User) *session.User {
	name, _ := u.UserMetadata["name"].(string)
	return &session.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      name,
		CreatedAt: u.CreatedAt,
	}
}
