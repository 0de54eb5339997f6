package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xiaona-ai/agent-tasks/internal/queue"
	"github.com/xiaona-ai/agent-tasks/internal/report"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks as markdown, JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue()
		if err != nil {
			return err
		}
		tasks, err := q.List(queue.ListFilter{})
		if err != nil {
			return err
		}

		var out string
		switch exportFormat {
		case "md", "markdown":
			stats, err := q.Stats()
			if err != nil {
				return err
			}
			out = report.Markdown(tasks, stats)
		case "json":
			out, err = report.JSON(tasks)
		case "yaml":
			out, err = report.YAML(tasks)
		default:
			return fmt.Errorf("unknown format %q (want md, json or yaml)", exportFormat)
		}
		if err != nil {
			return err
		}

		if exportOutput == "" {
			fmt.Print(out)
			return nil
		}
		if err := os.WriteFile(exportOutput, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Printf("Exported %d tasks to %s\n", len(tasks), exportOutput)
		return nil
	},
}

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearForce && !confirm("Delete ALL tasks? [y/N] ") {
			fmt.Println("Cancelled.")
			return nil
		}

		q, err := openQueue()
		if err != nil {
			return err
		}
		n, err := q.Clear()
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d tasks\n", n)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md, json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "Skip confirmation")
}
