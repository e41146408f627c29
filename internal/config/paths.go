// Package config provides the persisted application configuration and
// remote connection profiles.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the per-user configuration directory.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\filemaster
//   - Unix: ~/.config/filemaster
func ConfigDir() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "filemaster")
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, "filemaster")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "filemaster")
		}
		return filepath.Join(homeDir, ".config", "filemaster")
	}
	return filepath.Join(configDir, "filemaster")
}

// ConfigFile returns the default path of the JSON settings file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// ProfilesFile returns the default path of the remote profiles INI.
func ProfilesFile() string {
	return filepath.Join(ConfigDir(), "remotes.ini")
}

// LogDirectory returns the directory for log files (the TUI writes
// there while it owns the terminal).
func LogDirectory() string {
	return filepath.Join(ConfigDir(), "logs")
}

// EnsureConfigDir creates the configuration directory if missing.
// 0700 keeps stored credentials owner-only.
func EnsureConfigDir() error {
	if err := os.MkdirAll(ConfigDir(), 0700); err != nil {
		return err
	}
	return os.MkdirAll(LogDirectory(), 0700)
}
