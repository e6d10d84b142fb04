package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dsf/internal/bundle"
	"github.com/mrz1836/dsf/internal/domain"
	dsferrors "github.com/mrz1836/dsf/internal/errors"
	"github.com/mrz1836/dsf/internal/pipeline"
	"github.com/mrz1836/dsf/internal/reconcile"
	"github.com/mrz1836/dsf/internal/settings"
	"github.com/mrz1836/dsf/internal/testutil"
)

func seedDocument() *settings.Document {
	return &settings.Document{
		EnvironmentVariables: settings.Present(
			domain.EnvironmentVariable{SchemaName: "cr8a3_ApiBaseUrl"},
			domain.EnvironmentVariable{SchemaName: "cr8a3_Region"},
		),
		ConnectionReferences: settings.Present(domain.ConnectionReference{
			LogicalName: domain.StringPtr("cr8a3_sql"),
			ConnectorID: domain.StringPtr("/providers/Microsoft.PowerApps/apis/shared_sql"),
		}),
	}
}

func seedFile(t *testing.T, store *settings.Store) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Sol_deploymentSettings.json")
	require.NoError(t, store.Save(context.Background(), path, seedDocument()))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	return string(data)
}

func TestGenerate(t *testing.T) {
	fs := testutil.MemBundle(t, map[string]string{
		"Sol/environmentvariabledefinitions/cr8a3_Region/d.xml":        "<x/>",
		"Sol/Workflows/Flow_550e8400-e29b-41d4-a716-446655440000.json": "{}",
	})

	store := settings.NewStore()
	out := pipeline.DefaultOutputPath(t.TempDir(), "Sol")

	res, err := pipeline.New(store).Generate(context.Background(), pipeline.GenerateRequest{
		FS:         fs,
		BundleRoot: "Sol",
		OutputPath: out,
		Owner:      bundle.NoOwner{},
	})
	require.NoError(t, err)
	assert.Equal(t, out, res.Path)

	loaded, err := store.Load(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, []string{"cr8a3_Region"}, loaded.SchemaNames())
	assert.True(t, loaded.ConnectionReferences.Present)
	assert.Equal(t, 1, loaded.WorkflowOwnership.Len())
}

func TestGenerate_ScanFailureWritesNothing(t *testing.T) {
	fs := testutil.MemBundle(t, map[string]string{"Sol/customizations.xml": "<broken>"})
	out := filepath.Join(t.TempDir(), "out.json")

	_, err := pipeline.New(settings.NewStore()).Generate(context.Background(), pipeline.GenerateRequest{FS: fs, BundleRoot: "Sol", OutputPath: out})
	require.ErrorIs(t, err, dsferrors.ErrMalformedArtifact)
	assert.NoFileExists(t, out)
}

func TestAutofill_BothStages(t *testing.T) {
	store := settings.NewStore()
	path := seedFile(t, store)
	dir := &testutil.FakeDirectory{
		Connectors: []domain.ConnectorRecord{{ConnectorID: "/providers/Microsoft.PowerApps/apis/shared_sql", ConnectionID: "sql1"}},
		Values:     []domain.VariableValueRecord{{SchemaName: "cr8a3_Region", Value: "westeurope"}},
	}

	res, err := pipeline.New(store).Autofill(context.Background(), pipeline.AutofillRequest{Path: path, Connect: dir.Connect})
	require.NoError(t, err)
	require.NotNil(t, res.Connections)
	require.NotNil(t, res.Variables)
	assert.Equal(t, 1, res.Connections.Count(reconcile.OutcomeMatched))
	assert.Equal(t, 1, res.Variables.Count(reconcile.OutcomeMatched))
	assert.Equal(t, []string{"cr8a3_ApiBaseUrl", "cr8a3_Region"}, dir.RequestedNames())
	assert.Equal(t, 1, dir.Closed())

	doc, err := store.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "sql1", doc.ConnectionReferences.Items[0].ConnectionID)
	assert.Empty(t, doc.EnvironmentVariables.Items[0].Value)
	assert.Equal(t, "westeurope", doc.EnvironmentVariables.Items[1].Value)
}

func TestAutofill_VariablesFailureKeepsConnectionStage(t *testing.T) {
	store := settings.NewStore()
	path := seedFile(t, store)
	dir := &testutil.FakeDirectory{
		Connectors: []domain.ConnectorRecord{{ConnectorID: "/providers/Microsoft.PowerApps/apis/shared_sql", ConnectionID: "sql1"}},
		ValueErr:   testutil.ErrMockQuery,
	}

	res, err := pipeline.New(store).Autofill(context.Background(), pipeline.AutofillRequest{Path: path, Connect: dir.Connect})
	require.ErrorIs(t, err, dsferrors.ErrRemoteUnavailable)
	require.ErrorIs(t, err, testutil.ErrMockQuery)
	require.NotNil(t, res)
	assert.NotNil(t, res.Connections)
	assert.Nil(t, res.Variables)
	assert.Equal(t, 1, dir.Closed())

	doc, err := store.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "sql1", doc.ConnectionReferences.Items[0].ConnectionID)
	assert.Empty(t, doc.EnvironmentVariables.Items[1].Value)
}

func TestAutofill_ConnectionFailureLeavesFile(t *testing.T) {
	store := settings.NewStore()
	path := seedFile(t, store)
	before := readFile(t, path)
	dir := &testutil.FakeDirectory{ConnectorErr: testutil.ErrMockQuery}

	_, err := pipeline.New(store).Autofill(context.Background(), pipeline.AutofillRequest{Path: path, Connect: dir.Connect})
	require.ErrorIs(t, err, dsferrors.ErrRemoteUnavailable)
	assert.Equal(t, before, readFile(t, path))
	assert.Equal(t, 1, dir.Closed())
	assert.Zero(t, dir.ValueQueries(), "variables stage does not run after a failure")
}

func TestAutofill_ConnectFailure(t *testing.T) {
	store := settings.NewStore()
	path := seedFile(t, store)

	connect := func(context.Context) (reconcile.RemoteDirectory, error) {
		return nil, testutil.ErrMockQuery
	}
	_, err := pipeline.New(store).Autofill(context.Background(), pipeline.AutofillRequest{Path: path, Connect: connect})
	require.ErrorIs(t, err, dsferrors.ErrRemoteUnavailable)
}

func TestAutofill_MissingFileDoesNotConnect(t *testing.T) {
	called := false
	connect := func(context.Context) (reconcile.RemoteDirectory, error) {
		called = true
		return &testutil.FakeDirectory{}, nil
	}

	_, err := pipeline.New(settings.NewStore()).Autofill(context.Background(), pipeline.AutofillRequest{
		Path:    filepath.Join(t.TempDir(), "missing.json"),
		Connect: connect,
	})
	require.ErrorIs(t, err, dsferrors.ErrSettingsNotFound)
	assert.False(t, called)
}

func TestAutofill_SelectedStage(t *testing.T) {
	store := settings.NewStore()
	path := seedFile(t, store)
	dir := &testutil.FakeDirectory{Values: []domain.VariableValueRecord{{SchemaName: "cr8a3_Region", Value: "x"}}}

	res, err := pipeline.New(store).Autofill(context.Background(), pipeline.AutofillRequest{
		Path:    path,
		Connect: dir.Connect,
		Stages:  []pipeline.Stage{pipeline.StageVariables},
	})
	require.NoError(t, err)
	assert.Nil(t, res.Connections)
	assert.NotNil(t, res.Variables)
}

func TestAutofill_NoVariablesSkipsQuery(t *testing.T) {
	store := settings.NewStore()
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, store.Save(context.Background(), path, &settings.Document{
		ConnectionReferences: settings.Present[domain.ConnectionReference](),
	}))
	dir := &testutil.FakeDirectory{ValueErr: testutil.ErrMockQuery}

	res, err := pipeline.New(store).Autofill(context.Background(), pipeline.AutofillRequest{Path: path, Connect: dir.Connect})
	require.NoError(t, err)
	assert.Empty(t, res.Variables.Results)
	assert.Zero(t, dir.ValueQueries())
}

func TestParseStages(t *testing.T) {
	stages, err := pipeline.ParseStages([]string{"Variables", " connections "})
	require.NoError(t, err)
	assert.Equal(t, []pipeline.Stage{pipeline.StageVariables, pipeline.StageConnections}, stages)

	_, err = pipeline.ParseStages([]string{"owners"})
	require.Error(t, err)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "MySolution_deploymentSettings.json"), pipeline.DefaultOutputPath("out", "/tmp/MySolution/"))
}
