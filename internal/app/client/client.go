package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/exp/slog"

	"lifehub/internal/app/client/config"
)

const (
	tasksPath   = "/tasks"
	journalPath = "/journal"
)

// Storage - локальное хранилище сессии
type Storage interface {
	SaveSession(sess *Session) error
	LoadSession() (*Session, error)
	ClearSession() error
	Close() error
}

type App struct {
	config  *config.Config
	log     *slog.Logger
	http    *httpClient
	storage Storage
	session *Session
	now     func() time.Time
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", cfg.ConfigDir, err)
	}

	storage, err := NewSQLiteStorage(cfg.SessionPath)
	if err != nil {
		return nil, err
	}

	return newApp(cfg, log, storage), nil
}

func newApp(cfg *config.Config, log *slog.Logger, storage Storage) *App {
	app := &App{
		config:  cfg,
		log:     log.With(slog.String("component", "client")),
		http:    NewHTTPClient(cfg.ServerURL, cfg.APIBase(), log),
		storage: storage,
		now:     time.Now,
	}

	// Загружаем сессию, если она есть
	if sess, err := storage.LoadSession(); err == nil {
		app.session = sess
		app.http.SetToken(sess.AccessToken)
		app.log.Debug("session loaded", slog.String("user_id", sess.UserID))
	}

	return app
}

func (a *App) Close() error {
	return a.storage.Close()
}

func (a *App) Ping(ctx context.Context) (string, error) {
	return a.http.HealthCheck(ctx)
}

// RequestCode просит сервер отправить код на email
func (a *App) RequestCode(ctx context.Context, email string) error {
	return a.http.SendOTP(ctx, email)
}

// Login обменивает код на сессию и сохраняет ее локально
func (a *App) Login(ctx context.Context, email, code string) (*Account, error) {
	in, err := a.http.VerifyOTP(ctx, email, code)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		UserID:       in.User.UID,
		Email:        in.User.Email,
		AccessToken:  in.Session.AccessToken,
		RefreshToken: in.Session.RefreshToken,
	}
	if in.Session.ExpiresAt > 0 {
		sess.ExpiresAt = time.Unix(in.Session.ExpiresAt, 0)
	}

	if err := a.storage.SaveSession(sess); err != nil {
		return nil, err
	}
	a.session = sess
	a.http.SetToken(sess.AccessToken)

	return &in.User, nil
}

// Logout всегда удаляет локальную сессию, даже если сервер недоступен
func (a *App) Logout(ctx context.Context) error {
	if a.session == nil {
		return ErrNoSession
	}

	if err := a.http.Logout(ctx); err != nil {
		a.log.Warn("server logout failed", slog.Any("error", err))
	}

	a.session = nil
	a.http.SetToken("")
	return a.storage.ClearSession()
}

func (a *App) WhoAmI(ctx context.Context) (*Account, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	return a.http.Session(ctx)
}

func (a *App) ListTasks(ctx context.Context, f TaskFilter) ([]Item, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}

	q := url.Values{}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	if f.Ascending {
		q.Set("order", "asc")
	}
	if f.Completed != nil {
		q.Set("completed", strconv.FormatBool(*f.Completed))
	}
	return a.http.List(ctx, tasksPath, q)
}

func (a *App) AddTask(ctx context.Context, title, description string) (Item, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}

	body := map[string]any{"title": title, "completed": false}
	if description != "" {
		body["description"] = description
	}
	return a.http.Create(ctx, tasksPath, body)
}

func (a *App) CompleteTask(ctx context.Context, id string, completed bool) (Item, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	return a.http.Update(ctx, tasksPath, id, map[string]any{"completed": completed})
}

func (a *App) RemoveTask(ctx context.Context, id string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	return a.http.Delete(ctx, tasksPath, id)
}

func (a *App) AddJournalEntry(ctx context.Context, date time.Time, title, content, mood string) (Item, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}

	body := map[string]any{
		"date":    date.Format("2006-01-02"),
		"content": content,
	}
	if title != "" {
		body["title"] = title
	}
	if mood != "" {
		body["mood"] = mood
	}
	return a.http.Create(ctx, journalPath, body)
}

func (a *App) requireSession() error {
	if a.session == nil {
		return ErrNoSession
	}
	if a.session.Expired(a.now()) {
		return errors.New("сессия истекла, выполните lifehub auth login")
	}
	return nil
}
