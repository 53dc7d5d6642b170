package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/linkgraph/pkg/layout"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
)

// Config is the CLI configuration file. Flags override it.
//
// Example:
//
//	[build]
//	max_depth = 2
//	ignore_dirs = ["node_modules", "archive"]
//
//	[layout]
//	algorithm = "hierarchical"
//	direction = "LR"
//
//	[server]
//	addr = ":9090"
//
//	[cache]
//	redis_addr = "localhost:6379"
type Config struct {
	Build  BuildConfig  `toml:"build"`
	Layout LayoutConfig `toml:"layout"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Watch  WatchConfig  `toml:"watch"`
}

type BuildConfig struct {
	MaxDepth   int      `toml:"max_depth"`
	MaxNodes   int      `toml:"max_nodes"`
	IgnoreDirs []string `toml:"ignore_dirs"`
}

type LayoutConfig struct {
	Algorithm  string           `toml:"algorithm"`
	Iterations int              `toml:"iterations"`
	Seed       uint64           `toml:"seed"`
	Direction  layout.Direction `toml:"direction"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type CacheConfig struct {
	MaxEntries    int    `toml:"max_entries"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

type WatchConfig struct {
	Debounce time.Duration `toml:"debounce"`
}

// Config defaults.
const (
	defaultServerAddr = ":8080"
	defaultDebounce   = 300 * time.Millisecond
	defaultCacheSize  = 256
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Build:  BuildConfig{MaxDepth: pipeline.DefaultMaxDepth, MaxNodes: pipeline.DefaultMaxNodes},
		Layout: LayoutConfig{Algorithm: pipeline.DefaultAlgorithm, Direction: layout.TopBottom},
		Server: ServerConfig{Addr: defaultServerAddr},
		Cache:  CacheConfig{MaxEntries: defaultCacheSize},
		Watch:  WatchConfig{Debounce: defaultDebounce},
	}
}

// LoadConfig reads path, or the default config file when path is empty.
// A missing default file yields DefaultConfig; a missing explicit file is
// an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Build.MaxDepth < 0 || c.Build.MaxNodes < 0 {
		return fmt.Errorf("config: build limits must not be negative")
	}
	if c.Layout.Direction != layout.TopBottom && c.Layout.Direction != layout.LeftRight {
		return fmt.Errorf("config: layout direction must be TB or LR, got %q", c.Layout.Direction)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("config: watch debounce must not be negative")
	}
	return nil
}

// configPath returns the config file location using the XDG standard
// (~/.config/linkgraph/config.toml).
func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
