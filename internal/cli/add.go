package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiaona-ai/agent-tasks/internal/queue"
	"github.com/xiaona-ai/agent-tasks/internal/task"
)

var (
	addDesc          string
	addPriority      int
	addTags          string
	addDependsOn     string
	addMaxRetries    int
	addTimeout       int
	addDue           string
	addParent        string
	addBlockOnParent bool
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue()
		if err != nil {
			return err
		}

		req := queue.AddRequest{
			Name:        args[0],
			Description: addDesc,
			Priority:    addPriority,
			Tags:        splitCSV(addTags),
			DependsOn:   splitCSV(addDependsOn),
			Timeout:     addTimeout,
		}
		if cmd.Flags().Changed("max-retries") {
			req.MaxRetries = &addMaxRetries
		}
		if addDue != "" {
			due, err := parseDue(addDue)
			if err != nil {
				return err
			}
			req.DueAt = &due
		}

		var t *task.Task
		if addParent != "" {
			t, err = q.AddSubtask(addParent, req, addBlockOnParent)
		} else {
			t, err = q.Add(req)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Added task %s: %s [%s]\n", t.ID, t.Name, t.Status)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDesc, "desc", "", "Description")
	addCmd.Flags().IntVar(&addPriority, "priority", 0, "Priority 1-5 (5 highest, default 3)")
	addCmd.Flags().StringVar(&addTags, "tags", "", "Comma-separated tags")
	addCmd.Flags().StringVar(&addDependsOn, "depends-on", "", "Comma-separated task IDs")
	addCmd.Flags().IntVar(&addMaxRetries, "max-retries", 0, "Retry ceiling (default 3)")
	addCmd.Flags().IntVar(&addTimeout, "timeout", 0, "Advisory timeout in seconds (default 300)")
	addCmd.Flags().StringVar(&addDue, "due", "", "Deadline (RFC3339 or YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addParent, "parent", "", "Register as subtask of this task ID")
	addCmd.Flags().BoolVar(&addBlockOnParent, "block-on-parent", false, "Subtask also depends on the parent")
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (want RFC3339 or YYYY-MM-DD)", s)
	}
	return t.UTC(), nil
}
