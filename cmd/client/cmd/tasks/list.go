package tasks

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lifehub/cmd/client/cmd/types"
	"lifehub/internal/app/client"
)

var (
	sortBy     string
	ascending  bool
	onlyOpen   bool
	onlyDone   bool
	jsonOutput bool
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список задач",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if onlyOpen && onlyDone {
			return fmt.Errorf("флаги --open и --done взаимоисключающие")
		}

		filter := client.TaskFilter{Sort: sortBy, Ascending: ascending}
		switch {
		case onlyOpen:
			v := false
			filter.Completed = &v
		case onlyDone:
			v := true
			filter.Completed = &v
		}

		items, err := app.ListTasks(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("ошибка получения списка задач: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}
		return printTable(items)
	},
}

func printTable(items []client.Item) error {
	if len(items) == 0 {
		fmt.Println("Задачи не найдены")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tСТАТУС\tНАЗВАНИЕ\tСРОК")
	for _, it := range items {
		status := " "
		if it.String("completed") == "true" {
			status = "✓"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.ID(), status, it.String("title"), it.String("due_date"))
	}
	return w.Flush()
}

func init() {
	ListCmd.Flags().StringVar(&sortBy, "sort", "", "колонка сортировки (по умолчанию created_at)")
	ListCmd.Flags().BoolVar(&ascending, "asc", false, "сортировать по возрастанию")
	ListCmd.Flags().BoolVar(&onlyOpen, "open", false, "только невыполненные")
	ListCmd.Flags().BoolVar(&onlyDone, "done", false, "только выполненные")
	ListCmd.Flags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
}
