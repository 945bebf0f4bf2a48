package client

import (
	"fmt"
	"time"
)

// Session - сохраненная локально сессия пользователя
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Account - пользователь в том виде, в каком его отдает сервер
type Account struct {
	UID           string  `json:"uid"`
	Email         string  `json:"email"`
	Name          *string `json:"name"`
	CreatedTime   int64   `json:"createdTime"`
	LastLoginTime int64   `json:"lastLoginTime"`
}

type tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

type signIn struct {
	User    Account `json:"user"`
	Session tokens  `json:"session"`
}

// Item - запись любого ресурса: поля строки плюс _id и _uid
type Item map[string]any

func (i Item) ID() string {
	return i.String("_id")
}

func (i Item) String(key string) string {
	switch v := i[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// TaskFilter - параметры списка задач
type TaskFilter struct {
	Sort      string
	Ascending bool
	Completed *bool
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   *apiError `json:"error"`
}
