package types

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"lifehub/internal/app/client"
)

type appKey struct{}

// WithApp кладет приложение в контекст команды
func WithApp(ctx context.Context, app *client.App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// App достает приложение, созданное в PersistentPreRunE корневой команды
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(appKey{}).(*client.App)
	if !ok || app == nil {
		return nil, errors.New("приложение не инициализировано")
	}
	return app, nil
}
