package bundle

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	dsferrors "github.com/mrz1836/dsf/internal/errors"
)

// emailPattern accepts local@domain addresses in the WHATWG form of RFC 5322.
var emailPattern = regexp.MustCompile(
	"^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@" +
		"[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?" +
		"(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$",
)

// ValidateEmail reports whether s is a usable owner address.
func ValidateEmail(s string) error {
	if s == "" {
		return fmt.Errorf("owner email: %w: %w", dsferrors.ErrEmptyValue, dsferrors.ErrInvalidOwnerEmail)
	}
	if strings.TrimSpace(s) != s || !emailPattern.MatchString(s) {
		return fmt.Errorf("%q is not a valid email address: %w", s, dsferrors.ErrInvalidOwnerEmail)
	}
	return nil
}

// OwnerPrompt decides whether every workflow in a bundle gets the same owner.
//
// PromptOwner is called once per scan, before workflow slots are built, and
// only when the bundle has at least one workflow. It returns apply=false to
// leave owners null. When apply is true the returned address is checked with
// validate; interactive implementations should use validate to re-ask until
// the address passes.
type OwnerPrompt interface {
	PromptOwner(ctx context.Context, workflows int, validate func(string) error) (email string, apply bool, err error)
}

// OwnerPromptFunc adapts a function to OwnerPrompt.
type OwnerPromptFunc func(ctx context.Context, workflows int, validate func(string) error) (string, bool, error)

// PromptOwner implements OwnerPrompt.
func (f OwnerPromptFunc) PromptOwner(ctx context.Context, workflows int, validate func(string) error) (string, bool, error) {
	return f(ctx, workflows, validate)
}

// NoOwner leaves every workflow owner null.
type NoOwner struct{}

// PromptOwner implements OwnerPrompt.
func (NoOwner) PromptOwner(context.Context, int, func(string) error) (string, bool, error) {
	return "", false, nil
}

// StaticOwner applies one fixed address without asking.
type StaticOwner string

// PromptOwner implements OwnerPrompt.
func (o StaticOwner) PromptOwner(context.Context, int, func(string) error) (string, bool, error) {
	return string(o), true, nil
}
