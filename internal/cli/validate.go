package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/dsf/internal/tui"
)

// validateResult is the JSON shape of a successful validate run.
type validateResult struct {
	Path       string   `json:"path"`
	Valid      bool     `json:"valid"`
	OtherKeys  []string `json:"other_keys,omitempty"`
	Variables  int      `json:"environment_variables"`
	References int      `json:"connection_references"`
	Workflows  int      `json:"workflows"`
}

// AddValidateCommand adds the validate command to the root command.
func AddValidateCommand(root *cobra.Command) {
	root.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <settings.json>",
		Short: "Check a settings file against the settings schema",
		Long: `Check that a deployment settings file is well-formed JSON with the expected
sections and slot shapes. Unknown top-level keys are allowed and listed.

Exits 0 when the file is valid and 1 when it is missing or corrupted.

Examples:
  dsf validate MySolution_deploymentSettings.json
  dsf validate settings.json -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), cmd, cmd.OutOrStdout(), args[0])
		},
	}
}

func runValidate(ctx context.Context, cmd *cobra.Command, w io.Writer, path string) error {
	ctx = commandContext(ctx)
	out := tui.NewOutput(w, cmd.Flag("output").Value.String())

	cfg := loadConfigOrDefault(ctx)
	doc, err := newSettingsStore(ctx, cfg).Load(ctx, path)
	if err != nil {
		return err
	}

	result := validateResult{
		Path:       path,
		Valid:      true,
		OtherKeys:  doc.ExtraKeys(),
		Variables:  doc.EnvironmentVariables.Len(),
		References: doc.ConnectionReferences.Len(),
		Workflows:  doc.WorkflowOwnership.Len(),
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return out.JSON(result)
	}

	out.Success(fmt.Sprintf("%s is valid", path))
	for _, key := range result.OtherKeys {
		out.Warning(fmt.Sprintf("unrecognized key %q is kept as is", key))
	}
	return nil
}
