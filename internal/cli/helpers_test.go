package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dsf/internal/config"
)

const testCustomizations = `<?xml version="1.0" encoding="utf-8"?>
<ImportExportXml>
  <connectionreferences>
    <connectionreference connectionreferencelogicalname="cr8a3_sharedsql_1a2b3">
      <connectorid>/providers/Microsoft.PowerApps/apis/shared_sql</connectorid>
    </connectionreference>
  </connectionreferences>
</ImportExportXml>
`

// isolate points DSF_HOME at an empty temp dir, clears DSF_* variables and
// moves into an empty working directory. Tests using it cannot be parallel.
func isolate(t *testing.T) (home, wd string) {
	t.Helper()

	for _, env := range os.Environ() {
		key, _, _ := strings.Cut(env, "=")
		if strings.HasPrefix(key, config.EnvPrefix+"_") {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}

	home = t.TempDir()
	t.Setenv(config.HomeEnv, home)

	wd = t.TempDir()
	t.Chdir(wd)

	return home, wd
}

// writeBundle lays out a small bundle named Sol under dir.
func writeBundle(t *testing.T, dir string) string {
	t.Helper()

	root := filepath.Join(dir, "Sol")
	files := map[string]string{
		"environmentvariabledefinitions/cr8a3_ApiBaseUrl/environmentvariabledefinition.xml": "<x/>",
		"Other/customizations.xml": testCustomizations,
		"Workflows/Flow-550E8400-E29B-41D4-A716-446655440000.json": "{}",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

// newTestRoot builds a root command carrying only the global flags and sub,
// without the logger hook, so commands log nowhere.
func newTestRoot(sub *cobra.Command) *cobra.Command {
	flags := &GlobalFlags{}
	root := &cobra.Command{Use: "dsf", SilenceUsage: true, SilenceErrors: true}
	AddGlobalFlags(root, flags)
	root.AddCommand(sub)
	return root
}

// runCommand executes root with args and returns what it wrote to stdout.
func runCommand(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	return string(data)
}
