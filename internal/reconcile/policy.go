package reconcile

import (
	"fmt"
	"strings"

	"github.com/mrz1836/dsf/internal/domain"
	dsferrors "github.com/mrz1836/dsf/internal/errors"
)

// Connection policy names accepted by PolicyByName.
const (
	PolicyShared = "shared"
	PolicyAny    = "any"
)

// ConnectionPolicy decides which remote records may supply a connection id.
type ConnectionPolicy interface {
	Name() string
	Accept(r domain.ConnectorRecord) bool
}

// SharedConnectionPolicy accepts records whose connection id is non-empty and
// has no hyphen. Personal, per-user connections carry hyphenated ids, so this
// picks the shared instance of a connector.
type SharedConnectionPolicy struct{}

// Name implements ConnectionPolicy.
func (SharedConnectionPolicy) Name() string { return PolicyShared }

// Accept implements ConnectionPolicy.
func (SharedConnectionPolicy) Accept(r domain.ConnectorRecord) bool {
	return r.ConnectionID != "" && !strings.Contains(r.ConnectionID, "-")
}

// AnyConnectionPolicy accepts any record with a non-empty connection id.
type AnyConnectionPolicy struct{}

// Name implements ConnectionPolicy.
func (AnyConnectionPolicy) Name() string { return PolicyAny }

// Accept implements ConnectionPolicy.
func (AnyConnectionPolicy) Accept(r domain.ConnectorRecord) bool {
	return r.ConnectionID != ""
}

// PolicyByName returns the policy registered under name.
func PolicyByName(name string) (ConnectionPolicy, error) {
	switch name {
	case PolicyShared, "":
		return SharedConnectionPolicy{}, nil
	case PolicyAny:
		return AnyConnectionPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown connection policy %q (want %s or %s): %w",
			name, PolicyShared, PolicyAny, dsferrors.ErrConfigInvalidReconcile)
	}
}

// EmptyGroupBehavior controls what happens when a matched connector has no
// document slots sharing its name.
type EmptyGroupBehavior string

// Empty group behaviors.
const (
	// OnEmptyGroupAbort stops reconciling all remaining slots.
	OnEmptyGroupAbort EmptyGroupBehavior = "abort"

	// OnEmptyGroupSkip skips only the current slot.
	OnEmptyGroupSkip EmptyGroupBehavior = "skip"
)

// ParseEmptyGroupBehavior validates a configured behavior name.
func ParseEmptyGroupBehavior(s string) (EmptyGroupBehavior, error) {
	switch EmptyGroupBehavior(s) {
	case OnEmptyGroupAbort, "":
		return OnEmptyGroupAbort, nil
	case OnEmptyGroupSkip:
		return OnEmptyGroupSkip, nil
	default:
		return "", fmt.Errorf("unknown empty group behavior %q (want %s or %s): %w",
			s, OnEmptyGroupAbort, OnEmptyGroupSkip, dsferrors.ErrConfigInvalidReconcile)
	}
}
