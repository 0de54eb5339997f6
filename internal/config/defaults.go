package config

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		StorePath:       ".agent-tasks",
		MaxRetries:      3,
		DefaultPriority: 3,
		DefaultTimeout:  300,
	}
}
