package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/mrz1836/dsf/internal/bundle"
	"github.com/mrz1836/dsf/internal/config"
	"github.com/mrz1836/dsf/internal/errors"
	"github.com/mrz1836/dsf/internal/pipeline"
	"github.com/mrz1836/dsf/internal/settings"
	"github.com/mrz1836/dsf/internal/tui"
)

// GenerateFlags holds flags for the generate command.
type GenerateFlags struct {
	// File overrides the output path.
	File string
	// Owner assigns this address to every workflow without prompting.
	Owner string
	// NoOwner leaves every workflow owner null without prompting.
	NoOwner bool
}

// generateResult is the JSON shape of a generate run.
type generateResult struct {
	Path     string             `json:"path"`
	Document *settings.Document `json:"document"`
}

// AddGenerateCommand adds the generate command to the root command.
func AddGenerateCommand(root *cobra.Command) {
	root.AddCommand(newGenerateCmd(&GenerateFlags{}))
}

func newGenerateCmd(flags *GenerateFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <bundle-dir>",
		Short: "Scan a solution bundle and write its deployment settings file",
		Long: `Scan an unpacked solution bundle and write a deployment settings file with one
empty slot per environment variable, connection reference and workflow.

The file is written to <output.dir>/<bundle-name>_deploymentSettings.json unless
--file is given. An existing file is replaced.

Workflow owners:
  --owner <email>   assign one owner to every workflow
  --no-owner        leave owners null
  (neither)         ask in a terminal, leave owners null otherwise

Examples:
  dsf generate ./MySolution
  dsf generate ./MySolution --owner ops@contoso.com
  dsf generate ./MySolution -f settings/test.json --no-owner`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.File, "file", "f", "", "output path (default <output.dir>/<bundle>_deploymentSettings.json)")
	cmd.Flags().StringVar(&flags.Owner, "owner", "", "owner email for every workflow")
	cmd.Flags().BoolVar(&flags.NoOwner, "no-owner", false, "leave workflow owners empty")
	cmd.MarkFlagsMutuallyExclusive("owner", "no-owner")

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, w io.Writer, bundleDir string, flags *GenerateFlags) error {
	ctx = commandContext(ctx)
	out := tui.NewOutput(w, cmd.Flag("output").Value.String())

	owner, err := ownerPrompt(flags, tui.IsInteractive)
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(bundleDir)
	if err != nil {
		return fmt.Errorf("failed to resolve bundle path: %w", err)
	}

	outputPath := flags.File
	if outputPath == "" {
		outputPath = pipeline.DefaultOutputPath(cfg.Output.Dir, abs)
	}

	result, err := pipeline.New(newSettingsStore(ctx, cfg)).Generate(ctx, pipeline.GenerateRequest{
		FS:         osfs.New(filepath.Dir(abs)),
		BundleRoot: filepath.Base(abs),
		OutputPath: outputPath,
		Owner:      owner,
	})
	if err != nil {
		return err
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return out.JSON(generateResult{Path: result.Path, Document: result.Document})
	}

	out.Success(fmt.Sprintf("Wrote %s", result.Path))
	out.Info(generateSummary(result.Document))
	return nil
}

// ownerPrompt picks the workflow owner source from the flags. An --owner
// address is checked before any work starts.
func ownerPrompt(flags *GenerateFlags, interactive func() bool) (bundle.OwnerPrompt, error) {
	switch {
	case flags.Owner != "":
		if err := bundle.ValidateEmail(flags.Owner); err != nil {
			return nil, errors.NewExitCode2Error(err)
		}
		return bundle.StaticOwner(flags.Owner), nil
	case flags.NoOwner:
		return bundle.NoOwner{}, nil
	case interactive():
		return tui.NewOwnerPrompt(), nil
	default:
		return bundle.NoOwner{}, nil
	}
}

func generateSummary(doc *settings.Document) string {
	section := func(present bool, n int) string {
		if !present {
			return "absent"
		}
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("environment variables: %s, connection references: %s, workflows: %s",
		section(doc.EnvironmentVariables.Present, doc.EnvironmentVariables.Len()),
		section(doc.ConnectionReferences.Present, doc.ConnectionReferences.Len()),
		section(doc.WorkflowOwnership.Present, doc.WorkflowOwnership.Len()),
	)
}
