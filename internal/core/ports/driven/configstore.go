package driven

import "time"

// ConfigStore provides access to application configuration.
// Keys use dot notation matching the TOML table layout ("pipeline.top_k").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when missing or mistyped.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 when missing or mistyped.
	GetInt(key string) int

	// GetFloat retrieves a float value; integers are converted.
	GetFloat(key string) float64

	// GetBool retrieves a boolean value, or false when missing or mistyped.
	GetBool(key string) bool

	// GetDuration parses a duration string ("2s") or integer seconds.
	GetDuration(key string) time.Duration

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
