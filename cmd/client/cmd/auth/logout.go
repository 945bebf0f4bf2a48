package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"lifehub/cmd/client/cmd/types"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти и удалить локальную сессию",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if err := app.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("✓ Сессия завершена")
		return nil
	},
}
