package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrz1836/dsf/internal/tui"
)

// ShowFlags holds flags for the show command.
type ShowFlags struct {
	// Markdown prints the markdown source instead of rendering it.
	Markdown bool
}

// AddShowCommand adds the show command to the root command.
func AddShowCommand(root *cobra.Command) {
	root.AddCommand(newShowCmd(&ShowFlags{}))
}

func newShowCmd(flags *ShowFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <settings.json>",
		Short: "Summarize what a settings file has filled",
		Long: `Print a summary of a deployment settings file: each section with how many of
its slots are filled, and a table of the slots.

With --output json the validated document itself is printed.

Examples:
  dsf show MySolution_deploymentSettings.json
  dsf show settings.json --markdown > summary.md
  dsf show settings.json -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Markdown, "markdown", false, "print markdown without terminal rendering")

	return cmd
}

func runShow(ctx context.Context, cmd *cobra.Command, w io.Writer, path string, flags *ShowFlags) error {
	ctx = commandContext(ctx)
	out := tui.NewOutput(w, cmd.Flag("output").Value.String())

	cfg := loadConfigOrDefault(ctx)
	doc, err := newSettingsStore(ctx, cfg).Load(ctx, path)
	if err != nil {
		return err
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return out.JSON(doc)
	}

	md := tui.SummaryMarkdown(filepath.Base(path), doc)
	if flags.Markdown {
		_, err := io.WriteString(w, md)
		return err
	}

	rendered, err := tui.RenderMarkdown(md, renderWidth())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}

// renderWidth is the terminal width capped at SummaryWordWrap.
func renderWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || width > tui.SummaryWordWrap {
		return tui.SummaryWordWrap
	}
	return width
}
