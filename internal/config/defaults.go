package config

import "github.com/mrz1836/dsf/internal/constants"

// Reconcile option values accepted in configuration.
const (
	PolicyShared      = "shared"
	PolicyAny         = "any"
	OnEmptyGroupAbort = "abort"
	OnEmptyGroupSkip  = "skip"
)

// DefaultConfig returns a new Config with default values. These are the
// base layer under config files, environment variables and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		Dataverse: DataverseConfig{
			ClientSecretEnv: constants.DefaultClientSecretEnv,
			Authority:       constants.DefaultAuthority,
			APIVersion:      constants.DefaultAPIVersion,
			Timeout:         constants.DefaultRemoteTimeout,
		},
		Reconcile: ReconcileConfig{
			ConnectionPolicy: PolicyShared,
			OnEmptyGroup:     OnEmptyGroupAbort,
			Sentinel:         constants.ConnectionNotFound,
		},
		Output: OutputConfig{
			Dir:         ".",
			LockTimeout: constants.LockTimeout,
		},
	}
}
