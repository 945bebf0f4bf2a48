package user

import (
	"time"

	"lifehub/internal/domain/session"
)

// Profile is a row of the profiles table.
type Profile struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account is the user as clients see it. Times are unix milliseconds.
type Account struct {
	UID           string  `json:"uid"`
	Email         string  `json:"email"`
	Name          *string `json:"name"`
	CreatedTime   int64   `json:"createdTime"`
	LastLoginTime int64   `json:"lastLoginTime"`
}

type SignIn struct {
	User    Account
	Session session.Tokens
}

// unixMilli отдает 0 для неизвестного времени (пустой created_at в профиле)
func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
