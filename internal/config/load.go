package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/dsf/internal/errors"
)

// EnvPrefix is the prefix of environment variables read by Load
// (e.g. DSF_DATAVERSE_URL for dataverse.url).
const EnvPrefix = "DSF"

// newViperInstance creates a new Viper instance with standard dsf configuration.
// This includes environment variable prefix (DSF_), key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (DSF_* prefix)
//  2. Project config (.dsf/config.yaml)
//  3. Global config (~/.dsf/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead.
//
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("dataverse.url", cfg.Dataverse.URL).
		Dur("dataverse.timeout", cfg.Dataverse.Timeout).
		Str("reconcile.connection_policy", cfg.Reconcile.ConnectionPolicy).
		Str("config_file", v.ConfigFileUsed()).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.dsf/config.yaml).
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil || !fileExists(globalConfigPath) {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig attempts to load the project config file (.dsf/config.yaml).
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// projectConfigPath has higher priority than globalConfigPath; either may be
// empty to skip that level. Environment variables still apply on top.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("dataverse.url", d.Dataverse.URL)
	v.SetDefault("dataverse.tenant_id", d.Dataverse.TenantID)
	v.SetDefault("dataverse.client_id", d.Dataverse.ClientID)
	v.SetDefault("dataverse.client_secret_env", d.Dataverse.ClientSecretEnv)
	v.SetDefault("dataverse.authority", d.Dataverse.Authority)
	v.SetDefault("dataverse.api_version", d.Dataverse.APIVersion)
	v.SetDefault("dataverse.timeout", d.Dataverse.Timeout.String())

	v.SetDefault("reconcile.connection_policy", d.Reconcile.ConnectionPolicy)
	v.SetDefault("reconcile.on_empty_group", d.Reconcile.OnEmptyGroup)
	v.SetDefault("reconcile.sentinel", d.Reconcile.Sentinel)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.lock_timeout", d.Output.LockTimeout.String())
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	applyDataverseOverrides(&cfg.Dataverse, &overrides.Dataverse)

	if overrides.Reconcile.ConnectionPolicy != "" {
		cfg.Reconcile.ConnectionPolicy = overrides.Reconcile.ConnectionPolicy
	}
	if overrides.Reconcile.OnEmptyGroup != "" {
		cfg.Reconcile.OnEmptyGroup = overrides.Reconcile.OnEmptyGroup
	}
	if overrides.Reconcile.Sentinel != "" {
		cfg.Reconcile.Sentinel = overrides.Reconcile.Sentinel
	}

	if overrides.Output.Dir != "" {
		cfg.Output.Dir = overrides.Output.Dir
	}
	if overrides.Output.LockTimeout != 0 {
		cfg.Output.LockTimeout = overrides.Output.LockTimeout
	}
}

func applyDataverseOverrides(cfg, overrides *DataverseConfig) {
	if overrides.URL != "" {
		cfg.URL = overrides.URL
	}
	if overrides.TenantID != "" {
		cfg.TenantID = overrides.TenantID
	}
	if overrides.ClientID != "" {
		cfg.ClientID = overrides.ClientID
	}
	if overrides.ClientSecretEnv != "" {
		cfg.ClientSecretEnv = overrides.ClientSecretEnv
	}
	if overrides.Authority != "" {
		cfg.Authority = overrides.Authority
	}
	if overrides.APIVersion != "" {
		cfg.APIVersion = overrides.APIVersion
	}
	if overrides.Timeout != 0 {
		cfg.Timeout = overrides.Timeout
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// This configures mapstructure to handle time.Duration conversion from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
