package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dsf/internal/errors"
)

func TestValidate_ValidFile(t *testing.T) {
	_, wd := isolate(t)
	path := seedSettings(t, wd)

	out, err := runCommand(t, newTestRoot(newValidateCmd()), "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, path+" is valid")
}

func TestValidate_ExtraKeysWarn(t *testing.T) {
	_, wd := isolate(t)
	path := filepath.Join(wd, "s.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"EnvironmentVariables": [], "Custom": {"a": 1}}`), 0o600))

	out, err := runCommand(t, newTestRoot(newValidateCmd()), "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, `unrecognized key "Custom"`)
}

func TestValidate_JSON(t *testing.T) {
	_, wd := isolate(t)
	path := seedSettings(t, wd)

	out, err := runCommand(t, newTestRoot(newValidateCmd()), "validate", path, "-o", "json")
	require.NoError(t, err)

	var result validateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.Variables)
	assert.Equal(t, 1, result.References)
	assert.Zero(t, result.Workflows)
}

func TestValidate_Failures(t *testing.T) {
	_, wd := isolate(t)

	bad := filepath.Join(wd, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"ConnectionReferences": [{"ConnectionId": 7}]}`), 0o600))
	notJSON := filepath.Join(wd, "notjson.json")
	require.NoError(t, os.WriteFile(notJSON, []byte(`{`), 0o600))

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing file", filepath.Join(wd, "missing.json"), errors.ErrSettingsNotFound},
		{"wrong slot shape", bad, errors.ErrSettingsCorrupted},
		{"not json", notJSON, errors.ErrSettingsCorrupted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCommand(t, newTestRoot(newValidateCmd()), "validate", tc.path)
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, ExitError, ExitCodeForError(err))
		})
	}
}
