package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

const defaultRoot = "data"

// Config holds registry initialization parameters.
type Config struct {
	Root string `json:"root,omitempty"` // parent directory for all container directories
}

// DefaultConfig returns the default registry configuration.
func DefaultConfig() Config {
	return Config{Root: defaultRoot}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Root != "" {
		c.Root = source.Root
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
