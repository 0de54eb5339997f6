package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiaona-ai/agent-tasks/internal/task"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue()
		if err != nil {
			return err
		}
		stats, err := q.Stats()
		if err != nil {
			return err
		}

		fmt.Printf("Total: %d\n", stats.Total)
		for _, s := range task.AllStatuses {
			fmt.Printf("  %-10s %d\n", s, stats.ByStatus[s])
		}
		return nil
	},
}

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List tasks past their due date",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue()
		if err != nil {
			return err
		}
		tasks, err := q.Overdue()
		if err != nil {
			return err
		}

		if len(tasks) == 0 {
			fmt.Println("No overdue tasks.")
			return nil
		}
		printTaskTable(tasks)
		return nil
	},
}
