package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xiaona-ai/agent-tasks/internal/config"
	"github.com/xiaona-ai/agent-tasks/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a task store in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, cfg, err := storeDir()
		if err != nil {
			return err
		}

		st := store.New(dir)
		if err := st.Init(); err != nil {
			return err
		}

		// Write the config file only on first init so an existing
		// setup is never clobbered.
		cfgPath := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			if err := config.Save(dir, cfg); err != nil {
				return err
			}
		}

		fmt.Printf("Initialized agent-tasks in %s\n", dir)
		return nil
	},
}
