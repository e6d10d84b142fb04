package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dsf/internal/bundle"
	"github.com/mrz1836/dsf/internal/errors"
	"github.com/mrz1836/dsf/internal/settings"
	"github.com/mrz1836/dsf/internal/tui"
)

func TestNewGenerateCmd(t *testing.T) {
	t.Parallel()

	cmd := newGenerateCmd(&GenerateFlags{})
	assert.Equal(t, "generate <bundle-dir>", cmd.Use)
	for _, name := range []string{"file", "owner", "no-owner"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "f", cmd.Flags().Lookup("file").Shorthand)
}

func TestGenerate_WritesDefaultPath(t *testing.T) {
	_, wd := isolate(t)
	root := writeBundle(t, wd)

	out, err := runCommand(t, newTestRoot(newGenerateCmd(&GenerateFlags{})), "generate", root, "--no-owner")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote Sol_deploymentSettings.json")
	assert.Contains(t, out, "environment variables: 1, connection references: 1, workflows: 1")

	content := readFile(t, filepath.Join(wd, "Sol_deploymentSettings.json"))
	assert.Contains(t, content, `"SchemaName": "cr8a3_ApiBaseUrl"`)
	assert.Contains(t, content, `"LogicalName": "cr8a3_sharedsql_1a2b3"`)
	assert.Contains(t, content, `"solutionComponentUniqueName": "550E8400-E29B-41D4-A716-446655440000"`)
	assert.Contains(t, content, `"ownerEmail": null`)
}

func TestGenerate_OwnerFlag(t *testing.T) {
	_, wd := isolate(t)
	root := writeBundle(t, wd)

	_, err := runCommand(t, newTestRoot(newGenerateCmd(&GenerateFlags{})), "generate", root, "--owner", "ops@contoso.com")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(wd, "Sol_deploymentSettings.json")), `"ownerEmail": "ops@contoso.com"`)
}

func TestGenerate_InvalidOwnerIsInputError(t *testing.T) {
	_, wd := isolate(t)
	root := writeBundle(t, wd)

	_, err := runCommand(t, newTestRoot(newGenerateCmd(&GenerateFlags{})), "generate", root, "--owner", "not-an-email")
	require.ErrorIs(t, err, errors.ErrInvalidOwnerEmail)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	assert.NoFileExists(t, filepath.Join(wd, "Sol_deploymentSettings.json"))
}

func TestGenerate_OwnerFlagsExclusive(t *testing.T) {
	_, wd := isolate(t)
	root := writeBundle(t, wd)

	_, err := runCommand(t, newTestRoot(newGenerateCmd(&GenerateFlags{})), "generate", root, "--owner", "a@b.com", "--no-owner")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestGenerate_FileFlagAndJSON(t *testing.T) {
	_, wd := isolate(t)
	root := writeBundle(t, wd)
	target := filepath.Join(wd, "out", "test.json")

	out, err := runCommand(t, newTestRoot(newGenerateCmd(&GenerateFlags{})), "generate", root, "-f", target, "--no-owner", "-o", "json")
	require.NoError(t, err)

	var result struct {
		Path     string          `json:"path"`
		Document json.RawMessage `json:"document"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, target, result.Path)

	doc, err := settings.Decode(result.Document)
	require.NoError(t, err)
	assert.Equal(t, []string{"cr8a3_ApiBaseUrl"}, doc.SchemaNames())
	assert.FileExists(t, target)
}

func TestGenerate_MissingBundle(t *testing.T) {
	_, wd := isolate(t)

	_, err := runCommand(t, newTestRoot(newGenerateCmd(&GenerateFlags{})), "generate", filepath.Join(wd, "nope"), "--no-owner")
	require.ErrorIs(t, err, errors.ErrBundleNotFound)
}

func TestGenerate_RequiresBundleArg(t *testing.T) {
	isolate(t)

	_, err := runCommand(t, newTestRoot(newGenerateCmd(&GenerateFlags{})), "generate")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestOwnerPrompt(t *testing.T) {
	t.Parallel()

	yes := func() bool { return true }
	no := func() bool { return false }

	p, err := ownerPrompt(&GenerateFlags{Owner: "ops@contoso.com"}, yes)
	require.NoError(t, err)
	assert.Equal(t, bundle.StaticOwner("ops@contoso.com"), p)

	p, err = ownerPrompt(&GenerateFlags{NoOwner: true}, yes)
	require.NoError(t, err)
	assert.Equal(t, bundle.NoOwner{}, p)

	p, err = ownerPrompt(&GenerateFlags{}, yes)
	require.NoError(t, err)
	assert.IsType(t, &tui.OwnerPrompt{}, p)

	p, err = ownerPrompt(&GenerateFlags{}, no)
	require.NoError(t, err)
	assert.Equal(t, bundle.NoOwner{}, p)

	_, err = ownerPrompt(&GenerateFlags{Owner: " a@b.com"}, no)
	require.ErrorIs(t, err, errors.ErrInvalidOwnerEmail)
	assert.True(t, errors.IsExitCode2Error(err))
}
