package config

// Config holds the queue defaults and store location.
type Config struct {
	// StorePath is the task store directory. Relative paths resolve
	// against the working directory.
	StorePath string `yaml:"store_path" mapstructure:"store_path"`

	// MaxRetries is the default retry ceiling for new tasks.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	// DefaultPriority is assigned to tasks created without one (1..5).
	DefaultPriority int `yaml:"default_priority" mapstructure:"default_priority"`

	// DefaultTimeout is the advisory per-task timeout in seconds.
	DefaultTimeout int `yaml:"default_timeout" mapstructure:"default_timeout"`
}
