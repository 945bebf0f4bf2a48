package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lifehub/cmd/client/cmd/types"
)

var (
	title string
	mood  string
	date  string
)

// JournalCmd - родительская команда для записей дневника
var JournalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Дневник",
}

var AddCmd = &cobra.Command{
	Use:   "add <текст>",
	Short: "Добавить запись в дневник",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		day := time.Now()
		if date != "" {
			day, err = time.Parse(time.DateOnly, date)
			if err != nil {
				return fmt.Errorf("дата должна быть в формате YYYY-MM-DD: %w", err)
			}
		}

		item, err := app.AddJournalEntry(cmd.Context(), day, title, strings.Join(args, " "), mood)
		if err != nil {
			return fmt.Errorf("ошибка создания записи: %w", err)
		}
		fmt.Println("✓ Запись добавлена:", item.ID())
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVarP(&title, "title", "t", "", "заголовок")
	AddCmd.Flags().StringVarP(&mood, "mood", "m", "", "настроение")
	AddCmd.Flags().StringVar(&date, "date", "", "дата записи, YYYY-MM-DD (по умолчанию сегодня)")
}
