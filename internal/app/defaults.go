package app

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - FONDSPOD_CONFIG_PATH: config file location (default: $XDG_CONFIG_HOME/fondspod/config.toml)
//   - FONDSPOD_HOME: base directory for fondspod data (default: $XDG_DATA_HOME/fondspod)
func GetDefaults() map[string]string {
	xdg.Reload()

	configPath := getConfigPath()
	baseDir := getBaseDir()

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}
}

func getConfigPath() string {
	if path := os.Getenv("FONDSPOD_CONFIG_PATH"); path != "" {
		return path
	}
	return filepath.Join(xdg.ConfigHome, "fondspod", "config.toml")
}

func getBaseDir() string {
	if path := os.Getenv("FONDSPOD_HOME"); path != "" {
		return path
	}
	return filepath.Join(xdg.DataHome, "fondspod")
}
