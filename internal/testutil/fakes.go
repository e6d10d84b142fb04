package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dsf/internal/domain"
	"github.com/mrz1836/dsf/internal/reconcile"
)

// MemBundle builds an in-memory bundle tree. Keys ending in "/" create empty
// directories; other keys create files with the given content.
func MemBundle(t testing.TB, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for path, content := range files {
		if dir, ok := strings.CutSuffix(path, "/"); ok {
			require.NoError(t, fs.MkdirAll(dir, 0o755))
			continue
		}
		require.NoError(t, util.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

// FakeDirectory is an in-memory reconcile.RemoteDirectory.
type FakeDirectory struct {
	Connectors []domain.ConnectorRecord
	Values     []domain.VariableValueRecord

	ConnectorErr error
	ValueErr     error

	mu             sync.Mutex
	requestedNames []string
	valueQueries   int
	closed         int
}

var _ reconcile.RemoteDirectory = (*FakeDirectory)(nil)

// Connect returns the fake itself. Its signature matches pipeline.Connector.
func (f *FakeDirectory) Connect(context.Context) (reconcile.RemoteDirectory, error) {
	return f, nil
}

// ListConnectionReferenceRecords returns Connectors or ConnectorErr.
func (f *FakeDirectory) ListConnectionReferenceRecords(ctx context.Context) ([]domain.ConnectorRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.ConnectorErr != nil {
		return nil, f.ConnectorErr
	}
	return f.Connectors, nil
}

// ListVariableValueRecords records the requested names and returns Values or ValueErr.
func (f *FakeDirectory) ListVariableValueRecords(ctx context.Context, names []string) ([]domain.VariableValueRecord, error) {
	f.mu.Lock()
	f.requestedNames = append([]string(nil), names...)
	f.valueQueries++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.ValueErr != nil {
		return nil, f.ValueErr
	}
	return f.Values, nil
}

// Close counts calls.
func (f *FakeDirectory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// RequestedNames returns the names passed to the last variable query.
func (f *FakeDirectory) RequestedNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requestedNames
}

// ValueQueries returns how many variable queries were made.
func (f *FakeDirectory) ValueQueries() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valueQueries
}

// Closed returns how many times Close was called.
func (f *FakeDirectory) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
