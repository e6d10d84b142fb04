package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dsf/internal/errors"
	"github.com/mrz1836/dsf/internal/tui"
)

func TestShow_Markdown(t *testing.T) {
	_, wd := isolate(t)
	path := seedSettings(t, wd)

	out, err := runCommand(t, newTestRoot(newShowCmd(&ShowFlags{})), "show", path, "--markdown")
	require.NoError(t, err)
	assert.Equal(t, tui.SummaryMarkdown("Sol_deploymentSettings.json", loadSettings(t, path)), out)
	assert.Contains(t, out, "## Workflow Ownership")
	assert.Contains(t, out, "_Not present in the bundle._")
}

func TestShow_Rendered(t *testing.T) {
	_, wd := isolate(t)
	t.Setenv("NO_COLOR", "1")
	path := seedSettings(t, wd)

	out, err := runCommand(t, newTestRoot(newShowCmd(&ShowFlags{})), "show", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Environment Variables")
	assert.Contains(t, out, "cr8a3_Region")
}

func TestShow_JSON(t *testing.T) {
	_, wd := isolate(t)
	path := seedSettings(t, wd)

	out, err := runCommand(t, newTestRoot(newShowCmd(&ShowFlags{})), "show", path, "-o", "json")
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "EnvironmentVariables")
	assert.Contains(t, doc, "ConnectionReferences")
	assert.NotContains(t, doc, "SolutionComponentOwnershipConfiguration")
}

func TestShow_CorruptedFile(t *testing.T) {
	_, wd := isolate(t)
	path := filepath.Join(wd, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"EnvironmentVariables": "nope"}`), 0o600))

	_, err := runCommand(t, newTestRoot(newShowCmd(&ShowFlags{})), "show", path)
	require.ErrorIs(t, err, errors.ErrSettingsCorrupted)
}

func TestRenderWidth(t *testing.T) {
	t.Parallel()

	w := renderWidth()
	assert.Positive(t, w)
	assert.LessOrEqual(t, w, tui.SummaryWordWrap)
}
