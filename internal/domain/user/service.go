package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"lifehub/internal/domain/session"
)

type Servicer interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*SignIn, error)
	Logout(ctx context.Context, token string)
	Session(ctx context.Context) (*Account, error)
}

type Service struct {
	provider  session.Provider
	profiles  Repository
	validator Validator
	log       *slog.Logger
	now       func() time.Time
}

func NewService(provider session.Provider, profiles Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		provider:  provider,
		profiles:  profiles,
		validator: validator,
		log:       log.With(slog.String("component", "user_service")),
		now:       time.Now,
	}
}

func (s *Service) SendOTP(ctx context.Context, email string) error {
	if err := s.validator.ValidateEmail(email); err != nil {
		return err
	}

	if err := s.provider.SendOTP(ctx, email); err != nil {
		s.log.Error("send otp failed", slog.String("email", email), slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrOTPSend, err)
	}

	s.log.Info("otp sent", slog.String("email", email))
	return nil
}

// VerifyOTP exchanges the code for a session and makes sure the profile row
// exists. A failed profile write does not fail the sign-in.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*SignIn, error) {
	if err := s.validator.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateCode(code); err != nil {
		return nil, err
	}

	u, tokens, err := s.provider.VerifyOTP(ctx, email, code)
	if err != nil || u == nil || tokens == nil {
		s.log.Warn("otp verification failed", slog.String("email", email), slog.Any("error", err))
		if err == nil {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidOTP, err)
	}

	now := s.now()
	if err := s.profiles.Upsert(ctx, Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		UpdatedAt: now.UTC(),
	}); err != nil {
		s.log.Error("profile upsert failed", slog.String("user_id", u.ID), slog.Any("error", err))
	}

	s.log.Info("user authenticated", slog.String("user_id", u.ID))

	return &SignIn{
		User: Account{
			UID:           u.ID,
			Email:         u.Email,
			Name:          nullable(u.Name),
			CreatedTime:   unixMilli(u.CreatedAt),
			LastLoginTime: now.UnixMilli(),
		},
		Session: *tokens,
	}, nil
}

// Logout не возвращает ошибку: клиент должен иметь возможность завершить
// сессию у себя даже если провайдер недоступен
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}

	if err := s.provider.SignOut(ctx, token); err != nil {
		s.log.Warn("remote sign out failed", slog.Any("error", err))
		return
	}

	if caller, ok := session.FromContext(ctx); ok {
		s.log.Info("user logged out", slog.String("user_id", caller.ID))
	}
}

func (s *Service) Session(ctx context.Context) (*Account, error) {
	caller, ok := session.FromContext(ctx)
	if !ok {
		return nil, session.ErrInvalidToken
	}

	p, err := s.profiles.Find(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.log.Error("profile fetch failed", slog.String("user_id", caller.ID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return &Account{
		UID:           p.ID,
		Email:         p.Email,
		Name:          nullable(p.Name),
		CreatedTime:   unixMilli(p.CreatedAt),
		LastLoginTime: s.now().UnixMilli(),
	}, nil
}
