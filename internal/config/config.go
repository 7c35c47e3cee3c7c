// Package config is the zxedit TOML configuration file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/psidex/zxedit/internal/editor"
	"github.com/psidex/zxedit/internal/lib"
)

type Config struct {
	LogLevel string        `toml:"log_level"`
	Editor   editor.Config `toml:"editor"`
	Serve    ServeConfig   `toml:"serve"`
	Host     HostConfig    `toml:"host"`
}

// ServeConfig controls the browser editor server.
type ServeConfig struct {
	BindAddress string `toml:"bind_address"`
	StaticDir   string `toml:"static_dir"`
	MetricsPath string `toml:"metrics_path"`
}

// HostConfig picks where graphs live. With Address set the editor talks to a
// remote zxhost, otherwise it runs an in-process store in StoreDir (in memory
// when empty).
type HostConfig struct {
	Address   string       `toml:"address"`
	StoreDir  string       `toml:"store_dir"`
	WatchFile string       `toml:"watch_file"`
	Debounce  lib.Duration `toml:"debounce"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Editor: editor.Config{
			PushTimeout: lib.DurationFrom(5 * time.Second),
			InboxSize:   64,
		},
		Serve: ServeConfig{
			BindAddress: "127.0.0.1:8080",
			StaticDir:   "public",
			MetricsPath: "/metrics",
		},
		Host: HostConfig{
			Debounce: lib.DurationFrom(200 * time.Millisecond),
		},
	}
}

// Path is the default config file location.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "zxedit", "config.toml")
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if _, err := lib.ParseSLogLevel(cfg.LogLevel); err != nil {
		return nil, errors.Wrapf(err, "%s: log_level", path)
	}
	return cfg, nil
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
