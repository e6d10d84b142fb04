package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.dsf/logs/dsf.log
	CLILogFileName = "dsf.log"
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global dsf configuration file.
	// This file is located in the dsf home directory.
	GlobalConfigName = "config.yaml"

	// LockFileSuffix is appended to a settings path to form its lock file.
	LockFileSuffix = ".lock"

	// TempFileSuffix is appended to a settings path for atomic writes.
	TempFileSuffix = ".tmp"
)
