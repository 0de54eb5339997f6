package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xiaona-ai/agent-tasks/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := storeDir()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value (store_path, max_retries, default_priority, default_timeout)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, cfg, err := storeDir()
		if err != nil {
			return err
		}

		key, value := args[0], args[1]
		switch key {
		case "store_path":
			cfg.StorePath = value
		case "max_retries":
			i, err := strconv.Atoi(value)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid value for max_retries: %s", value)
			}
			cfg.MaxRetries = i
		case "default_priority":
			i, err := strconv.Atoi(value)
			if err != nil || i < 1 || i > 5 {
				return fmt.Errorf("invalid value for default_priority: %s (want 1-5)", value)
			}
			cfg.DefaultPriority = i
		case "default_timeout":
			i, err := strconv.Atoi(value)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid value for default_timeout: %s", value)
			}
			cfg.DefaultTimeout = i
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := config.Save(dir, cfg); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
