package config

import (
	"net/url"

	"github.com/mrz1836/dsf/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Connection identity (url, tenant, client) may be empty here; it is only
// required when a command actually connects.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateDataverseConfig(&cfg.Dataverse); err != nil {
		return err
	}

	if err := validateReconcileConfig(&cfg.Reconcile); err != nil {
		return err
	}

	return validateOutputConfig(&cfg.Output)
}

func validateDataverseConfig(cfg *DataverseConfig) error {
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidDataverse,
			"dataverse.timeout must be positive, got %s", cfg.Timeout)
	}

	if cfg.ClientSecretEnv == "" {
		return errors.Wrap(errors.ErrConfigInvalidDataverse,
			"dataverse.client_secret_env must not be empty")
	}

	if cfg.URL != "" && !isAbsoluteHTTPURL(cfg.URL) {
		return errors.Wrapf(errors.ErrConfigInvalidDataverse,
			"dataverse.url must be an absolute http(s) URL, got %q", cfg.URL)
	}

	if !isAbsoluteHTTPURL(cfg.Authority) {
		return errors.Wrapf(errors.ErrConfigInvalidDataverse,
			"dataverse.authority must be an absolute http(s) URL, got %q", cfg.Authority)
	}

	return nil
}

func validateReconcileConfig(cfg *ReconcileConfig) error {
	switch cfg.ConnectionPolicy {
	case PolicyShared, PolicyAny:
	default:
		return errors.Wrapf(errors.ErrConfigInvalidReconcile,
			"reconcile.connection_policy must be %q or %q, got %q", PolicyShared, PolicyAny, cfg.ConnectionPolicy)
	}

	switch cfg.OnEmptyGroup {
	case OnEmptyGroupAbort, OnEmptyGroupSkip:
	default:
		return errors.Wrapf(errors.ErrConfigInvalidReconcile,
			"reconcile.on_empty_group must be %q or %q, got %q", OnEmptyGroupAbort, OnEmptyGroupSkip, cfg.OnEmptyGroup)
	}

	if cfg.Sentinel == "" {
		return errors.Wrap(errors.ErrConfigInvalidReconcile, "reconcile.sentinel must not be empty")
	}

	return nil
}

func validateOutputConfig(cfg *OutputConfig) error {
	if cfg.LockTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidOutput,
			"output.lock_timeout must be positive, got %s", cfg.LockTimeout)
	}
	return nil
}

func isAbsoluteHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}
