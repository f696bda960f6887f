package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// config is the TOML configuration file schema.
type config struct {
	Root     string `toml:"root"`
	LogLevel string `toml:"log_level"`
}

// loadConfig reads the config file at path. An empty path returns defaults;
// a named file that does not exist is an error.
func loadConfig(path string) (*config, error) {
	cfg := &config{}
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
