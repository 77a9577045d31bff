// Package config loads engine and host settings from an optional TOML
// file. Command-line flags override anything read from the file.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	DefaultRecursionLimit    = 1000
	DefaultListenAddr        = ":8600"
	DefaultSessionTTLMinutes = 30
)

type Config struct {
	RecursionLimit    int    `toml:"recursion_limit"`
	HistoryFile       string `toml:"history_file"`
	ListenAddr        string `toml:"listen_addr"`
	SessionTTLMinutes int    `toml:"session_ttl_minutes"`

	Store StoreConfig `toml:"store"`
}

type StoreConfig struct {
	// Driver is "sqlite3" or "mysql"; empty disables persistence.
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

func Default() Config {
	return Config{
		RecursionLimit:    DefaultRecursionLimit,
		HistoryFile:       filepath.Join(os.TempDir(), ".mathlang_history"),
		ListenAddr:        DefaultListenAddr,
		SessionTTLMinutes: DefaultSessionTTLMinutes,
	}
}

// Load reads path over the defaults. An empty path returns the defaults;
// a missing file is an error so a mistyped -config is not silently ignored.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = DefaultRecursionLimit
	}
	if cfg.SessionTTLMinutes <= 0 {
		cfg.SessionTTLMinutes = DefaultSessionTTLMinutes
	}
	return cfg, nil
}
