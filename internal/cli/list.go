package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xiaona-ai/agent-tasks/internal/queue"
	"github.com/xiaona-ai/agent-tasks/internal/task"
)

var (
	listStatus    string
	listTag       string
	listDependsOn string
	listLimit     int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listStatus != "" && !task.ValidStatus(task.Status(listStatus)) {
			return fmt.Errorf("unknown status %q", listStatus)
		}

		q, err := openQueue()
		if err != nil {
			return err
		}

		tasks, err := q.List(queue.ListFilter{
			Status:    task.Status(listStatus),
			Tag:       listTag,
			DependsOn: listDependsOn,
			Limit:     listLimit,
		})
		if err != nil {
			return err
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}
		printTaskTable(tasks)
		return nil
	},
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the highest-priority pending task",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue()
		if err != nil {
			return err
		}

		t, err := q.Next()
		if err != nil {
			return err
		}
		if t == nil {
			fmt.Println("No pending tasks.")
			return nil
		}
		printTaskDetail(t)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue()
		if err != nil {
			return err
		}

		t, err := q.Get(args[0])
		if err != nil {
			return err
		}
		printTaskDetail(t)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (pending, blocked, running, done, failed, cancelled)")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag")
	listCmd.Flags().StringVar(&listDependsOn, "depends-on", "", "Filter by dependency on a task ID")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "Max results")
}

func printTaskTable(tasks []task.Task) {
	fmt.Printf("%-14s %-10s %-3s %s\n", "ID", "STATUS", "PRI", "NAME")
	for _, t := range tasks {
		name := t.Name
		if len(t.Tags) > 0 {
			name += "  [" + strings.Join(t.Tags, ", ") + "]"
		}
		fmt.Printf("%-14s %-10s P%-2d %s\n", t.ID, t.Status, t.Priority, name)
	}
}

func printTaskDetail(t *task.Task) {
	fmt.Printf("Task %s\n", t.ID)
	fmt.Printf("  Name:        %s\n", t.Name)
	if t.Description != "" {
		fmt.Printf("  Description: %s\n", t.Description)
	}
	fmt.Printf("  Status:      %s\n", t.Status)
	fmt.Printf("  Priority:    %d\n", t.Priority)
	if len(t.Tags) > 0 {
		fmt.Printf("  Tags:        %s\n", strings.Join(t.Tags, ", "))
	}
	if len(t.DependsOn) > 0 {
		fmt.Printf("  Depends on:  %s\n", strings.Join(t.DependsOn, ", "))
	}
	if len(t.Subtasks) > 0 {
		fmt.Printf("  Subtasks:    %s\n", strings.Join(t.Subtasks, ", "))
	}
	fmt.Printf("  Retries:     %d/%d\n", t.Retries, t.MaxRetries)
	if t.DueAt != nil {
		fmt.Printf("  Due:         %s\n", t.DueAt.Format("2006-01-02 15:04 MST"))
	}
	fmt.Printf("  Created:     %s\n", t.CreatedAt.Format("2006-01-02 15:04 MST"))
	if t.StartedAt != nil {
		fmt.Printf("  Started:     %s\n", t.StartedAt.Format("2006-01-02 15:04 MST"))
	}
	if t.CompletedAt != nil {
		fmt.Printf("  Completed:   %s\n", t.CompletedAt.Format("2006-01-02 15:04 MST"))
	}
	if t.Result != "" {
		fmt.Printf("  Result:      %s\n", t.Result)
	}
	if t.Error != "" {
		fmt.Printf("  Error:       %s\n", t.Error)
	}
}
