package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xiaona-ai/agent-tasks/internal/config"
	"github.com/xiaona-ai/agent-tasks/internal/queue"
	"github.com/xiaona-ai/agent-tasks/internal/store"
)

var (
	storeFlag string
	rootCmd   *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "agent-tasks",
		Short: "Lightweight task queue for AI agents",
		Long: `agent-tasks is a file-backed task queue with priorities, dependencies
and bounded auto-retry.

Tasks live in a flat .agent-tasks/tasks.jsonl file next to your project,
so the whole queue is greppable, diffable and easy to back up.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Task store directory (overrides config)")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(failCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(overdueCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// storeDir resolves the store directory from the --store flag or config.
func storeDir() (string, *config.Config, error) {
	if storeFlag != "" {
		cfg, err := config.LoadFrom(storeFlag)
		if err != nil {
			return "", nil, err
		}
		return storeFlag, cfg, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", nil, err
	}
	dir := cfg.StorePath
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", nil, err
		}
		dir = filepath.Join(cwd, dir)
	}
	return dir, cfg, nil
}

// openQueue builds the engine over the resolved store.
func openQueue() (*queue.Queue, error) {
	dir, cfg, err := storeDir()
	if err != nil {
		return nil, err
	}
	q := queue.New(store.New(dir), queue.Options{
		DefaultPriority:   cfg.DefaultPriority,
		DefaultMaxRetries: cfg.MaxRetries,
		DefaultTimeout:    cfg.DefaultTimeout,
	})
	return q, nil
}
