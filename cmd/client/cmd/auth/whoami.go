package auth

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lifehub/cmd/client/cmd/types"
)

var WhoAmICmd = &cobra.Command{
	Use:   "whoami",
	Short: "Показать текущего пользователя",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		account, err := app.WhoAmI(cmd.Context())
		if err != nil {
			return err
		}

		name := "-"
		if account.Name != nil {
			name = *account.Name
		}
		fmt.Printf("ID:       %s\n", account.UID)
		fmt.Printf("Email:    %s\n", account.Email)
		fmt.Printf("Имя:      %s\n", name)
		fmt.Printf("Создан:   %s\n", time.UnixMilli(account.CreatedTime).Format(time.DateTime))
		return nil
	},
}
