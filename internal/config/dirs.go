package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvConfigDir overrides where config.toml lives.
	EnvConfigDir = "MODELSCOUT_CONFIG_DIR"
	// EnvCacheDir overrides where table data and quota records live.
	EnvCacheDir = "MODELSCOUT_CACHE_DIR"
)

// Dir returns the config directory, honoring MODELSCOUT_CONFIG_DIR.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine config dir: %w", err)
	}
	return filepath.Join(base, "modelscout"), nil
}

// Path returns the config.toml path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the cache directory, honoring MODELSCOUT_CACHE_DIR.
func CacheDir() (string, error) {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("determine cache dir: %w", err)
	}
	return filepath.Join(base, "modelscout"), nil
}
