package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk representation of a catalog.
type Config struct {
	Practices []Practice     `yaml:"practices"`
	Shocks    []WeatherShock `yaml:"weather_shocks"`
}

// LoadConfig loads a catalog from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
// Sections left empty in the file fall back to the built-in lists.
func LoadConfig(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	expanded := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
	}

	if len(config.Practices) == 0 {
		config.Practices = DefaultPractices
	}
	if len(config.Shocks) == 0 {
		config.Shocks = DefaultShocks
	}

	c, err := New(config.Practices, config.Shocks)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return c, nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		value := os.Getenv(parts[0])
		if value == "" && len(parts) == 2 {
			return parts[1]
		}
		return value
	})
}
