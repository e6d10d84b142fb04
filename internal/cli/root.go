// Package cli provides the command-line interface for dsf.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/dsf/internal/errors"
	"github.com/mrz1836/dsf/internal/signal"
	"github.com/mrz1836/dsf/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the logger initialized in PersistentPreRunE.
// Access is protected by globalLoggerMu.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// It MUST only be called after the root command's PersistentPreRunE has run;
// before that it returns a zero-value logger that discards everything.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// commandContext attaches the CLI logger to ctx so zerolog.Ctx works below the CLI.
func commandContext(ctx context.Context) context.Context {
	logger := GetLogger()
	return logger.WithContext(ctx)
}

// newRootCmd creates the root command for the dsf CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "dsf",
		Short: "Deployment settings file generator",
		Long: `dsf builds the deployment settings file for an unpacked solution bundle
and fills it from a target environment.

Workflow:
  1. dsf generate <bundle-dir>       scan the bundle, write <name>_deploymentSettings.json
  2. dsf autofill <settings.json>    fill connection ids and variable values from the environment
  3. dsf show <settings.json>        review what is filled and what is still empty

Each step loads the file, fills the slots it owns and writes it back; a failed
step leaves the file as the previous step wrote it.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddGenerateCommand(cmd)
	AddAutofillCommand(cmd)
	AddShowCommand(cmd)
	AddValidateCommand(cmd)
	AddConfigCommand(cmd)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command and prints a failure to stderr in the
// selected output format. The returned error maps to an exit code through
// ExitCodeForError.
func Execute(ctx context.Context, info BuildInfo) error {
	return execute(ctx, info, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, info BuildInfo, args []string, stdout, stderr io.Writer) error {
	defer CloseLogFile()

	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	if cause := context.Cause(ctx); stderrors.Is(cause, signal.ErrInterrupted) && !stderrors.Is(err, signal.ErrInterrupted) {
		err = fmt.Errorf("%w: %w", cause, err)
	}

	format := flags.Output
	if !IsValidOutputFormat(format) {
		format = OutputText
	}
	tui.NewOutput(stderr, format).Error(err)
	return err
}
