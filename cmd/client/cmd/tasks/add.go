package tasks

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lifehub/cmd/client/cmd/types"
)

var description string

var AddCmd = &cobra.Command{
	Use:   "add <название>",
	Short: "Создать задачу",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		item, err := app.AddTask(cmd.Context(), strings.Join(args, " "), description)
		if err != nil {
			return fmt.Errorf("ошибка создания задачи: %w", err)
		}
		fmt.Println("✓ Задача создана:", item.ID())
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVarP(&description, "description", "d", "", "описание задачи")
}
