package tasks

import (
	"fmt"

	"github.com/spf13/cobra"

	"lifehub/cmd/client/cmd/types"
)

var reopen bool

var DoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Отметить задачу выполненной",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		item, err := app.CompleteTask(cmd.Context(), args[0], !reopen)
		if err != nil {
			return fmt.Errorf("ошибка обновления задачи: %w", err)
		}
		fmt.Printf("✓ %s: completed=%s\n", item.ID(), item.String("completed"))
		return nil
	},
}

func init() {
	DoneCmd.Flags().BoolVar(&reopen, "undo", false, "снять отметку о выполнении")
}
