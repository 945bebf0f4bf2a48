package client

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNoSession = errors.New("нет сохраненной сессии, выполните lifehub auth login")

// SQLiteStorage хранит текущую сессию в локальном файле.
// Таблица всегда содержит не больше одной строки.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	storage := &SQLiteStorage{db: db}

	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			user_id TEXT NOT NULL,
			email TEXT NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			saved_at DATETIME NOT NULL
		);
	`)

	return err
}

func (s *SQLiteStorage) SaveSession(sess *Session) error {
	_, err := s.db.Exec(`
		INSERT INTO session (id, user_id, email, access_token, refresh_token, expires_at, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			email = excluded.email,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			saved_at = excluded.saved_at
	`, sess.UserID, sess.Email, sess.AccessToken, sess.RefreshToken, sess.ExpiresAt.Unix(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ошибка сохранения сессии: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) LoadSession() (*Session, error) {
	var sess Session
	var expiresAt int64

	err := s.db.QueryRow(`
		SELECT user_id, email, access_token, refresh_token, expires_at
		FROM session
		WHERE id = 1
	`).Scan(&sess.UserID, &sess.Email, &sess.AccessToken, &sess.RefreshToken, &expiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения сессии: %w", err)
	}

	if expiresAt > 0 {
		sess.ExpiresAt = time.Unix(expiresAt, 0)
	}
	return &sess, nil
}

func (s *SQLiteStorage) ClearSession() error {
	if _, err := s.db.Exec("DELETE FROM session"); err != nil {
		return fmt.Errorf("ошибка удаления сессии: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
