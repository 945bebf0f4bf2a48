package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lifehub/cmd/client/cmd/types"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Проверить доступность сервера",
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Запросить /health у сервера",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		status, err := app.Ping(ctx)
		if err != nil {
			return err
		}
		fmt.Println("✓ Сервер доступен:", status)
		return nil
	},
}

func init() {
	healthCmd.AddCommand(pingCmd)
}
