// Package paths resolves the configuration directory, the card data directory
// and the catalog database location.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Defaults used when no flag, environment variable or config value is set.
// DataDir and DBPath are relative to the working directory.
const (
	DefaultDataDirName = "data"
	DefaultDBPath      = "sqlite/elestrals_api.sqlite"
	appDirName         = "elestrals"
)

// memoryDB is passed through untouched by ResolveDBPath.
const memoryDB = ":memory:"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/elestrals (fallback ~/.config/elestrals)
// macOS:   ~/Library/Application Support/elestrals
// Windows: %APPDATA%/elestrals
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > env > DefaultConfigDir().
func ResolveConfigDir(flag, env string) (string, error) {
	if v := first(flag, env); v != "" {
		return filepath.Abs(v)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the card data directory following the precedence
// chain: flag > env > config value > ./data.
func ResolveDataDir(flag, env, configValue string) (string, error) {
	if v := first(flag, env, configValue); v != "" {
		return filepath.Abs(v)
	}
	return filepath.Abs(DefaultDataDirName)
}

// ResolveDBPath returns the catalog database path following the precedence
// chain: flag > env > config value > ./sqlite/elestrals_api.sqlite. The
// in-memory name is returned as is.
func ResolveDBPath(flag, env, configValue string) (string, error) {
	v := first(flag, env, configValue)
	if v == memoryDB {
		return v, nil
	}
	if v == "" {
		v = DefaultDBPath
	}
	return filepath.Abs(v)
}

// first returns the first non-empty value.
func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
