package tasks

import (
	"github.com/spf13/cobra"
)

// TasksCmd - родительская команда для работы с задачами
var TasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Управление задачами",
}
