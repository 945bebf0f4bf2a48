package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerURL  = "http://localhost:3001"
	defaultAPIVersion = "v1"
	defaultLogLevel   = "error"
	defaultEnv        = "local"
	defaultConfigDir  = ".lifehub"
	sessionFile       = "session.db"
)

type Config struct {
	Env         string
	ServerURL   string
	APIVersion  string
	LogLevel    string
	ConfigDir   string
	SessionPath string
}

// APIBase возвращает адрес версионированного API, например http://localhost:3001/api/v1
func (c *Config) APIBase() string {
	return c.ServerURL + "/api/" + c.APIVersion
}

// Load читает конфигурацию клиента из v (файл + переменные окружения).
// Пустой v означает только окружение.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("LIFEHUB_SERVER", defaultServerURL)
	v.SetDefault("LIFEHUB_API_VERSION", defaultAPIVersion)
	v.SetDefault("LIFEHUB_LOG_LEVEL", defaultLogLevel)
	v.SetDefault("LIFEHUB_CONFIG_DIR", "")

	configDir := v.GetString("LIFEHUB_CONFIG_DIR")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		configDir = filepath.Join(home, defaultConfigDir)
	}

	cfg := &Config{
		Env:         v.GetString("APP_ENV"),
		ServerURL:   strings.TrimRight(v.GetString("LIFEHUB_SERVER"), "/"),
		APIVersion:  v.GetString("LIFEHUB_API_VERSION"),
		LogLevel:    v.GetString("LIFEHUB_LOG_LEVEL"),
		ConfigDir:   configDir,
		SessionPath: filepath.Join(configDir, sessionFile),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EnsureDir создает директорию клиента с правами только для владельца
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.ConfigDir, 0o700)
}

func (c *Config) validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("LIFEHUB_SERVER не может быть пустым")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("LIFEHUB_SERVER должен начинаться с http:// или https://")
	}
	if c.APIVersion == "" {
		return fmt.Errorf("LIFEHUB_API_VERSION не может быть пустым")
	}
	return nil
}
