// internal/config/config.go
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the optional per-repository configuration, read from
// .gitto/config.json. Every field has a working default.
type Config struct {
	LogLevel     string `json:"log_level"`     // debug, info, warn, error
	ContextLines int    `json:"context_lines"` // diff context
	CacheSize    int    `json:"cache_size"`    // object read cache entries
}

func Default() *Config {
	return &Config{
		LogLevel:     "warn",
		ContextLines: 3,
		CacheSize:    256,
	}
}

// Load reads the config file under the control directory, falling back to
// defaults when it is absent. GITTO_LOG_LEVEL overrides the file.
func Load(controlDir string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(filepath.Join(controlDir, "config.json"))
	if err == nil {
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if level := os.Getenv("GITTO_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if cfg.ContextLines <= 0 {
		cfg.ContextLines = 3
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}

	return cfg, nil
}
