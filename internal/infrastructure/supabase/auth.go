package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	CreatedAt    time.Time      `json:"created_at"`
	LastSignInAt *time.Time     `json:"last_sign_in_at,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user"`
}

// AuthClient talks to the GoTrue API of the project.
type AuthClient struct {
	client *Client
}

// SendOTP sends a one-time code to email, creating the user if needed.
func (a *AuthClient) SendOTP(ctx context.Context, email string) error {
	body, err := json.Marshal(map[string]any{
		"email":       email,
		"create_user": true,
	})
	if err != nil {
		return err
	}

	if _, _, err := a.client.do(ctx, http.MethodPost, a.client.authURL+"/otp", body, nil); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

// VerifyOTP exchanges an email code for a session.
func (a *AuthClient) VerifyOTP(ctx context.Context, email, token string) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"type":  "email",
		"email": email,
		"token": token,
	})
	if err != nil {
		return nil, err
	}

	data, _, err := a.client.do(ctx, http.MethodPost, a.client.authURL+"/verify", body, nil)
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Unix() + s.ExpiresIn
	}

	return &s, nil
}

// GetUser resolves an access token to its user.
func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	c := a.client.WithToken(accessToken)

	data, _, err := c.do(ctx, http.MethodGet, c.authURL+"/user", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if u.ID == "" {
		return nil, errors.New("get user: empty user id")
	}

	return &u, nil
}

// SignOut revokes every refresh token of the session owner.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	c := a.client.WithToken(accessToken)

	if _, _, err := c.do(ctx, http.MethodPost, c.authURL+"/logout?scope=global", nil, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
