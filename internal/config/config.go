// Package config provides configuration management for dsf with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (DSF_* prefix)
//  3. Project config (.dsf/config.yaml)
//  4. Global config (~/.dsf/config.yaml)
//  5. Built-in defaults
//
// Secrets never live in config files: the Dataverse client secret is read
// from the environment variable named by dataverse.client_secret_env.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import (
	"os"
	"time"
)

// Config is the root configuration structure for dsf.
type Config struct {
	// Dataverse holds the target environment connection settings.
	Dataverse DataverseConfig `yaml:"dataverse" mapstructure:"dataverse" json:"dataverse"`

	// Reconcile tunes how connection references are matched.
	Reconcile ReconcileConfig `yaml:"reconcile" mapstructure:"reconcile" json:"reconcile"`

	// Output controls where settings files are written.
	Output OutputConfig `yaml:"output" mapstructure:"output" json:"output"`
}

// DataverseConfig identifies the organization and the service principal used
// to query it.
type DataverseConfig struct {
	// URL is the organization root, e.g. https://contoso.crm.dynamics.com.
	URL string `yaml:"url" mapstructure:"url" json:"url"`

	// TenantID is the Entra ID tenant of the service principal.
	TenantID string `yaml:"tenant_id" mapstructure:"tenant_id" json:"tenant_id"`

	// ClientID is the application (client) id of the service principal.
	ClientID string `yaml:"client_id" mapstructure:"client_id" json:"client_id"`

	// ClientSecretEnv names the environment variable holding the client secret.
	// Default: DSF_DATAVERSE_CLIENT_SECRET
	ClientSecretEnv string `yaml:"client_secret_env" mapstructure:"client_secret_env" json:"client_secret_env"`

	// Authority is the identity platform host.
	// Default: https://login.microsoftonline.com
	Authority string `yaml:"authority" mapstructure:"authority" json:"authority"`

	// APIVersion is the Web API version segment.
	// Default: v9.2
	APIVersion string `yaml:"api_version" mapstructure:"api_version" json:"api_version"`

	// Timeout bounds each HTTP request.
	// Default: 2 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`
}

// ClientSecret reads the secret from the configured environment variable.
func (c DataverseConfig) ClientSecret() string {
	if c.ClientSecretEnv == "" {
		return ""
	}
	return os.Getenv(c.ClientSecretEnv)
}

// ReconcileConfig tunes connection reconciliation.
type ReconcileConfig struct {
	// ConnectionPolicy selects which remote records may supply a connection
	// id: "shared" skips personal (hyphenated) connections, "any" does not.
	// Default: shared
	ConnectionPolicy string `yaml:"connection_policy" mapstructure:"connection_policy" json:"connection_policy"`

	// OnEmptyGroup is "abort" (stop the pass) or "skip" (skip the slot).
	// Default: abort
	OnEmptyGroup string `yaml:"on_empty_group" mapstructure:"on_empty_group" json:"on_empty_group"`

	// Sentinel is written when a connector exists but has no usable connection.
	// Default: "None found"
	Sentinel string `yaml:"sentinel" mapstructure:"sentinel" json:"sentinel"`
}

// OutputConfig controls settings file output.
type OutputConfig struct {
	// Dir is where generate writes when no output file is given.
	// Default: current directory
	Dir string `yaml:"dir" mapstructure:"dir" json:"dir"`

	// LockTimeout bounds how long to wait for another dsf process holding
	// the same settings file.
	// Default: 5 seconds
	LockTimeout time.Duration `yaml:"lock_timeout" mapstructure:"lock_timeout" json:"lock_timeout"`
}
