package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lifehub/cmd/client/cmd/auth"
	"lifehub/cmd/client/cmd/journal"
	"lifehub/cmd/client/cmd/tasks"
	"lifehub/cmd/client/cmd/types"
	"lifehub/internal/app/client"
	"lifehub/internal/app/client/config"
	"lifehub/internal/utils/logger"
)

var (
	cfgFile   string
	serverURL string
	debug     bool
	app       *client.App
)

var rootCmd = &cobra.Command{
	Use:   "lifehub",
	Short: "LifeHub - клиент для задач, привычек и дневника",
	Long: `LifeHub - консольный клиент сервиса LifeHub.

Вход выполняется по одноразовому коду из письма, сессия хранится
локально в ~/.lifehub/session.db.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	v, err := loadConfigFile()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	if serverURL != "" {
		v.Set("LIFEHUB_SERVER", serverURL)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log := logger.NewWithLevel(cfg.Env, level)

	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(types.WithApp(ctx, app))
	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	return app.Close()
}

func loadConfigFile() (*viper.Viper, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Ищем конфиг в стандартных местах
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Join(home, ".lifehub"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Конфиг не найден, используем окружение и значения по умолчанию
	}
	return v, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "URL сервера LifeHub")

	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd, auth.LogoutCmd, auth.WhoAmICmd)

	rootCmd.AddCommand(tasks.TasksCmd)
	tasks.TasksCmd.AddCommand(tasks.ListCmd, tasks.AddCmd, tasks.DoneCmd, tasks.RmCmd)

	rootCmd.AddCommand(journal.JournalCmd)
	journal.JournalCmd.AddCommand(journal.AddCmd)

	rootCmd.AddCommand(healthCmd)
}
