package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/dsf/internal/constants"
	"github.com/mrz1836/dsf/internal/errors"
)

// HomeEnv overrides the dsf home directory (default ~/.dsf).
const HomeEnv = "DSF_HOME"

// GlobalConfigDir returns the dsf home directory: $DSF_HOME if set,
// otherwise ~/.dsf.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.DSFHome), nil
}

// ProjectConfigDir returns the relative path to the project configuration directory.
func ProjectConfigDir() string {
	return constants.DSFHome
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.GlobalConfigName)
}

// LocksDir returns where settings lock files are kept.
func LocksDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get locks dir: %w", err)
	}
	return filepath.Join(dir, constants.LocksDir), nil
}

// LogsDir returns where the CLI log file is written.
func LogsDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get logs dir: %w", err)
	}
	return filepath.Join(dir, constants.LogsDir), nil
}
