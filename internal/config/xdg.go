package config

import (
	"os"
	"path/filepath"
)

const appName = "glimpse"

// appDir returns the application directory under the XDG base directory
// named by env, falling back to fallback below the user's home.
func appDir(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return filepath.Join(v, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "." + appName
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...)
}

// ConfigDir is $XDG_CONFIG_HOME/glimpse.
func ConfigDir() string {
	return appDir("XDG_CONFIG_HOME", ".config")
}

// DataDir is $XDG_DATA_HOME/glimpse.
func DataDir() string {
	return appDir("XDG_DATA_HOME", ".local", "share")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), appName+".db")
}

// DefaultLogPath returns the debug log written while the TUI runs.
func DefaultLogPath() string {
	return filepath.Join(DataDir(), "debug.log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}
