package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"lifehub/internal/app/server/api"
	"lifehub/internal/app/server/api/http/middleware/ratelimit"
	"lifehub/internal/app/server/config"
	"lifehub/internal/infrastructure/metrics"
	"lifehub/internal/infrastructure/migration"
	"lifehub/internal/infrastructure/supabase"
	"lifehub/internal/utils/logger"
)

func main() {
	conf := config.MustLoad()
	log := logger.NewWithLevel(conf.Env, conf.Logger.LogLevel)

	if err := run(conf, log); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(conf *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	anon, err := supabase.New(conf.Supabase.URL, conf.Supabase.AnonKey)
	if err != nil {
		return err
	}
	admin, err := supabase.New(conf.Supabase.URL, conf.Supabase.ServiceKey)
	if err != nil {
		return err
	}

	mg := migration.NewMigration(conf, migration.DefaultEngine, log)
	if mg.Enabled() {
		if err := mg.Up(); err != nil {
			return err
		}
	} else {
		log.Info("SUPABASE_DB_URL is not set, skipping migrations")
	}

	limiter := ratelimit.New("general", conf.RateLimit.MaxRequests, conf.RateLimit.Window, log)
	authLimiter := ratelimit.New("auth", conf.RateLimit.AuthMaxRequests, conf.RateLimit.Window, log)
	go limiter.Cleanup(ctx, time.Minute)
	go authLimiter.Cleanup(ctx, time.Minute)

	router := api.New(api.Dependencies{
		Config:      conf,
		Log:         log,
		Anon:        anon,
		Admin:       admin,
		Metrics:     metrics.New(),
		Limiter:     limiter,
		AuthLimiter: authLimiter,
	})

	srv := &http.Server{
		Addr:              conf.Server.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			slog.String("address", conf.Server.RunAddress),
			slog.String("env", conf.Env),
			slog.String("api", conf.APIPrefix()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", slog.Duration("timeout", conf.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
