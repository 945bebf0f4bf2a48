package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env        string
	APIVersion string
	Server     server
	Supabase   supabase
	DB         db
	RateLimit  rateLimit
	Logger     logger
	CORS       cors
}

type server struct {
	RunAddress      string `env:"RUN_ADDRESS"`
	ShutdownTimeout time.Duration
	// TrustProxy включает разбор X-Forwarded-For / X-Real-IP.
	// Только за прокси, который сам перезаписывает эти заголовки.
	TrustProxy bool `env:"TRUST_PROXY"`
}

type supabase struct {
	URL        string `env:"SUPABASE_URL"`
	AnonKey    string `env:"SUPABASE_ANON_KEY"`
	ServiceKey string `env:"SUPABASE_SERVICE_KEY"`
}

type db struct {
	DatabaseURI string `env:"SUPABASE_DB_URL"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type rateLimit struct {
	Window          time.Duration
	MaxRequests     int
	AuthMaxRequests int
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL"`
}

type cors struct {
	AllowedOrigins []string
}

// APIPrefix возвращает префикс версионированных маршрутов, например /api/v1
func (c *Config) APIPrefix() string {
	return "/api/" + c.APIVersion
}

func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// MustLoad загружает конфигурацию и завершает процесс при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func Load() (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("run_address", ":3001")
	v.SetDefault("api_version", "v1")
	v.SetDefault("migrations_path", "migrations")
	v.SetDefault("allowed_origins", "http://localhost:3000")
	v.SetDefault("rate_limit_window", "15m")
	v.SetDefault("rate_limit_max_requests", 100)
	v.SetDefault("auth_rate_limit_max_requests", 5)
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("trust_proxy", false)

	cfg := &Config{
		Env:        v.GetString("app_env"),
		APIVersion: v.GetString("api_version"),
		Server: server{
			RunAddress:      v.GetString("run_address"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
			TrustProxy:      v.GetBool("trust_proxy"),
		},
		Supabase: supabase{
			URL:        strings.TrimRight(v.GetString("supabase_url"), "/"),
			AnonKey:    v.GetString("supabase_anon_key"),
			ServiceKey: v.GetString("supabase_service_key"),
		},
		DB: db{
			DatabaseURI: v.GetString("supabase_db_url"),
			Migrations:  v.GetString("migrations_path"),
		},
		RateLimit: rateLimit{
			Window:          v.GetDuration("rate_limit_window"),
			MaxRequests:     v.GetInt("rate_limit_max_requests"),
			AuthMaxRequests: v.GetInt("auth_rate_limit_max_requests"),
		},
		Logger: logger{LogLevel: v.GetString("log_level")},
		CORS:   cors{AllowedOrigins: splitList(v.GetString("allowed_origins"))},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		errs = append(errs, fmt.Errorf("APP_ENV must be one of %s, %s, %s, got %q", EnvLocal, EnvDev, EnvProd, c.Env))
	}
	if c.Supabase.URL == "" {
		errs = append(errs, errors.New("SUPABASE_URL is required"))
	}
	if c.Supabase.AnonKey == "" {
		errs = append(errs, errors.New("SUPABASE_ANON_KEY is required"))
	}
	if c.Supabase.ServiceKey == "" {
		errs = append(errs, errors.New("SUPABASE_SERVICE_KEY is required"))
	}
	if c.APIVersion == "" {
		errs = append(errs, errors.New("API_VERSION must not be empty"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.AuthMaxRequests <= 0 {
		errs = append(errs, errors.New("rate limit request counts must be positive"))
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
