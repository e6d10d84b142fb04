package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	dsferrors "github.com/mrz1836/dsf/internal/errors"
)

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Theme returns the huh theme in dsf colors.
func Theme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()
	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorPrimary)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(ColorPrimary)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	return t
}

// OwnerPrompt asks on the terminal whether workflows get an owner, and which.
// It satisfies bundle.OwnerPrompt.
type OwnerPrompt struct {
	accessible  bool
	interactive func() bool
}

// NewOwnerPrompt creates an OwnerPrompt. Accessible mode (plain line
// prompts for screen readers) is enabled when ACCESSIBLE is set.
func NewOwnerPrompt() *OwnerPrompt {
	_, accessible := os.LookupEnv("ACCESSIBLE")
	return &OwnerPrompt{accessible: accessible, interactive: IsInteractive}
}

// PromptOwner confirms whether to assign an owner to the bundle's workflows
// and then reads the address, re-asking until validate accepts it.
// Without a terminal it returns ErrInteractiveRequired; Esc or Ctrl+C
// returns ErrMenuCanceled.
func (p *OwnerPrompt) PromptOwner(ctx context.Context, workflows int, validate func(string) error) (string, bool, error) {
	if !p.interactive() {
		return "", false, dsferrors.ErrInteractiveRequired
	}

	apply := true
	confirm := huh.NewConfirm().
		Title(fmt.Sprintf("Assign an owner to %s?", plural(workflows, "workflow"))).
		Description("Owners are written to SolutionComponentOwnershipConfiguration.").
		Affirmative("Yes").
		Negative("No").
		Value(&apply)
	if err := p.run(ctx, confirm); err != nil {
		return "", false, err
	}
	if !apply {
		return "", false, nil
	}

	var email string
	input := huh.NewInput().
		Title("Owner email").
		Placeholder("someone@contoso.com").
		Validate(validate).
		Value(&email)
	if err := p.run(ctx, input); err != nil {
		return "", false, err
	}
	return email, true, nil
}

func (p *OwnerPrompt) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(Theme()).
		WithAccessible(p.accessible).
		WithShowHelp(true)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return dsferrors.ErrMenuCanceled
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("owner prompt failed: %w", err)
	}
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
