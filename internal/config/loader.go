package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const configFile = "config.yaml"

// Load merges configuration from the global and project files over the
// defaults. Missing files are not an error.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if home, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(home, ".agent-tasks", configFile)
		if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", globalPath, err)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return cfg, nil
	}
	projectPath := filepath.Join(cwd, ".agent-tasks", configFile)
	if err := loadFile(projectPath, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", projectPath, err)
	}

	return cfg, nil
}

// LoadFrom merges a single config file over the defaults. Used when the
// store directory is given explicitly.
func LoadFrom(dir string) (*Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(dir, configFile)
	if err := loadFile(path, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// Save writes cfg to the config file inside dir, creating the directory if
// needed.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
