package cli

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/dsf/internal/config"
	"github.com/mrz1836/dsf/internal/settings"
)

// newSettingsStore builds the settings store for cfg. Lock files go under
// $DSF_HOME/locks when the home directory resolves, otherwise beside the
// settings file.
func newSettingsStore(ctx context.Context, cfg *config.Config) *settings.Store {
	opts := []settings.StoreOption{settings.WithLockTimeout(cfg.Output.LockTimeout)}

	dir, err := config.LocksDir()
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("lock directory unavailable, locking beside settings file")
	} else {
		opts = append(opts, settings.WithLockDir(dir))
	}

	return settings.NewStore(opts...)
}

// loadConfigOrDefault loads configuration for commands that can run without
// remote access. A broken config file is logged and defaults are used.
func loadConfigOrDefault(ctx context.Context) *config.Config {
	cfg, err := config.Load(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to load config, using defaults")
		return config.DefaultConfig()
	}
	return cfg
}
