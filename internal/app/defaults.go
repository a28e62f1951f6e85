package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - FV_CONFIG_PATH: config file location (default: ~/.config/fv.toml)
//   - FV_HOME: base directory for fv data (default: ~/.local/share/fv)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking FV_CONFIG_PATH env var first,
// then falling back to the default ~/.config/fv.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("FV_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "fv.toml"), nil
}

// getBaseDir returns the base directory for fv data, checking FV_HOME env var first,
// then falling back to the XDG default ~/.local/share/fv.
func getBaseDir() (string, error) {
	if path := os.Getenv("FV_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "fv"), nil
}
