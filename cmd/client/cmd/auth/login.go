package auth

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lifehub/cmd/client/cmd/types"
)

var email string

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в LifeHub",
	Long: `Сервер отправляет одноразовый код на email, код вводится здесь же.

После входа сессия сохраняется локально для последующих команд.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if email == "" {
			fmt.Print("Email: ")
			_, _ = fmt.Scanln(&email)
		}
		email = strings.TrimSpace(email)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.RequestCode(ctx, email); err != nil {
			return fmt.Errorf("ошибка отправки кода: %w", err)
		}
		fmt.Println("Код отправлен на", email)

		fmt.Print("Код из письма: ")
		code, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения кода: %w", err)
		}
		fmt.Println()

		account, err := app.Login(ctx, email, strings.TrimSpace(string(code)))
		if err != nil {
			return fmt.Errorf("ошибка входа: %w", err)
		}

		fmt.Println()
		fmt.Printf("✅ Вход выполнен: %s (%s)\n", account.Email, account.UID)
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&email, "email", "e", "", "email для входа")
}
