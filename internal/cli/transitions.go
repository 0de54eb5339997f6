package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xiaona-ai/agent-tasks/internal/task"
)

var startCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue()
		if err != nil {
			return err
		}
		t, err := q.Start(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Started task %s: %s\n", t.ID, t.Name)
		return nil
	},
}

var doneResult string

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Complete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue()
		if err != nil {
			return err
		}
		t, err := q.Complete(args[0], doneResult)
		if err != nil {
			return err
		}
		fmt.Printf("Completed task %s: %s\n", t.ID, t.Name)
		return nil
	},
}

var failError string

var failCmd = &cobra.Command{
	Use:   "fail <id>",
	Short: "Fail a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue()
		if err != nil {
			return err
		}
		t, err := q.Fail(args[0], failError)
		if err != nil {
			return err
		}
		if t.Status == task.StatusPending {
			fmt.Printf("Task %s failed, retrying (%d/%d)\n", t.ID, t.Retries, t.MaxRetries)
		} else {
			fmt.Printf("Task %s failed permanently: %s\n", t.ID, t.Error)
		}
		return nil
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue()
		if err != nil {
			return err
		}
		t, err := q.Cancel(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Cancelled task %s\n", t.ID)
		return nil
	},
}

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task permanently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteForce && !confirm(fmt.Sprintf("Delete task %s? [y/N] ", args[0])) {
			fmt.Println("Cancelled.")
			return nil
		}

		q, err := openQueue()
		if err != nil {
			return err
		}
		t, err := q.Delete(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted task %s\n", t.ID)
		return nil
	},
}

func init() {
	doneCmd.Flags().StringVar(&doneResult, "result", "", "Result message")
	failCmd.Flags().StringVar(&failError, "error", "", "Error message")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
