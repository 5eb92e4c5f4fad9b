package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds defaults a user can set once in a TOML file instead of
// repeating flags on every invocation.
type Config struct {
	Precision     int `toml:"precision"`
	MaxAttempts   int `toml:"max_attempts"`
	MaxIterations int `toml:"max_iterations"`
	MaxRestarts   int `toml:"max_restarts"`
}

// loadConfig reads a TOML config file. An empty path or a missing file
// yields the zero config, which means library defaults apply.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
