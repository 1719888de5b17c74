// Package config loads the server configuration from YAML with sane
// defaults. A missing config file is not an error; the defaults run a
// playable server on :8080.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"duskhollow/server/logging"
)

type Config struct {
	Addr       string         `yaml:"addr"`
	TickRate   int            `yaml:"tick_rate"`
	ContentDir string         `yaml:"content_dir"`
	ClientDir  string         `yaml:"client_dir"`
	Logging    logging.Config `yaml:"logging"`
}

func Default() Config {
	return Config{
		Addr:      ":8080",
		TickRate:  20,
		ClientDir: "../client",
		Logging:   logging.DefaultConfig(),
	}
}

// Load reads the YAML config at path over the defaults. An empty path or a
// missing file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.TickRate <= 0 {
		return cfg, fmt.Errorf("config %s: tick_rate must be positive", path)
	}
	return cfg, nil
}
