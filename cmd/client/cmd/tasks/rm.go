package tasks

import (
	"fmt"

	"github.com/spf13/cobra"

	"lifehub/cmd/client/cmd/types"
)

var RmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Удалить задачу",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if err := app.RemoveTask(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("ошибка удаления задачи: %w", err)
		}
		fmt.Println("✓ Задача удалена")
		return nil
	},
}
