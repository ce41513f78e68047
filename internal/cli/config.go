package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Cache backends selectable in the config file.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config holds user preferences from ~/.config/lutforge/config.toml.
// Every field has a working default, so the file is optional.
type Config struct {
	// Size is the default LUT resolution for generate. Zero defers to
	// the pipeline default.
	Size int `toml:"size"`

	// Adaptation is the default chromatic adaptation method.
	Adaptation string `toml:"adaptation"`

	// Workers bounds batch concurrency. Zero means one per CPU.
	Workers int `toml:"workers"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	// Backend is "file" (default), "redis", or "none".
	Backend string `toml:"backend"`

	// RedisAddr is the host:port of the shared redis instance. Only used
	// with the redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// LoadConfig reads the user's config file, if present. A missing file is
// not an error; a malformed one is.
func LoadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
	}

	switch cfg.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	case "":
		cfg.Cache.Backend = CacheBackendFile
	default:
		return DefaultConfig(), fmt.Errorf("%s: unknown cache backend %q (use file, redis, or none)",
			path, cfg.Cache.Backend)
	}
	return cfg, nil
}

// configPath returns the config file location using XDG standard
// (~/.config/lutforge/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
