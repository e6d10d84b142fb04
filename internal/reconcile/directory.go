// Package reconcile fills settings document slots from records held by a
// target environment.
//
// The reconcilers are pure with respect to I/O: callers fetch records through
// a RemoteDirectory and pass them in. Each call mutates only the section it
// owns and returns a Report describing what happened to every slot.
package reconcile

import (
	"context"

	"github.com/mrz1836/dsf/internal/domain"
)

// RemoteDirectory is the read-only query surface of a target environment.
type RemoteDirectory interface {
	// ListConnectionReferenceRecords returns every connection reference
	// instance in the environment.
	ListConnectionReferenceRecords(ctx context.Context) ([]domain.ConnectorRecord, error)

	// ListVariableValueRecords returns variable values whose schema name is
	// in schemaNames. An empty schemaNames returns no records.
	ListVariableValueRecords(ctx context.Context, schemaNames []string) ([]domain.VariableValueRecord, error)

	// Close releases the session.
	Close() error
}
