package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/dsf/internal/config"
	"github.com/mrz1836/dsf/internal/logging"
	"github.com/mrz1836/dsf/internal/tui"
)

// Secret status values shown by config show.
const (
	secretSet   = "set (" + logging.RedactedValue + ")"
	secretUnset = "not set"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect dsf configuration",
		Long: `Inspect the configuration dsf resolves from defaults, ~/.dsf/config.yaml,
.dsf/config.yaml and DSF_* environment variables.`,
	}
	cmd.AddCommand(newConfigShowCmd())
	root.AddCommand(cmd)
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration after all layers are merged, plus the
config files that were considered.

The client secret is never printed: only whether its environment variable is set.

Examples:
  dsf config show
  dsf config show -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), cmd.Flag("output").Value.String())
		},
	}
}

// configView is the printable form of the effective configuration.
type configView struct {
	Dataverse dataverseView          `yaml:"dataverse" json:"dataverse"`
	Reconcile config.ReconcileConfig `yaml:"reconcile" json:"reconcile"`
	Output    outputView             `yaml:"output" json:"output"`
	Files     []configFile           `yaml:"files" json:"files"`
}

type dataverseView struct {
	URL             string `yaml:"url" json:"url"`
	TenantID        string `yaml:"tenant_id" json:"tenant_id"`
	ClientID        string `yaml:"client_id" json:"client_id"`
	ClientSecretEnv string `yaml:"client_secret_env" json:"client_secret_env"`
	ClientSecret    string `yaml:"client_secret" json:"client_secret"`
	Authority       string `yaml:"authority" json:"authority"`
	APIVersion      string `yaml:"api_version" json:"api_version"`
	Timeout         string `yaml:"timeout" json:"timeout"`
}

type outputView struct {
	Dir         string `yaml:"dir" json:"dir"`
	LockTimeout string `yaml:"lock_timeout" json:"lock_timeout"`
}

type configFile struct {
	Scope  string `yaml:"scope" json:"scope"`
	Path   string `yaml:"path" json:"path"`
	Exists bool   `yaml:"exists" json:"exists"`
}

func runConfigShow(ctx context.Context, w io.Writer, format string) error {
	ctx = commandContext(ctx)

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	view := newConfigView(cfg)

	if format == OutputJSON {
		return tui.NewOutput(w, format).JSON(view)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

func newConfigView(cfg *config.Config) configView {
	secret := secretUnset
	if cfg.Dataverse.ClientSecret() != "" {
		secret = secretSet
	}

	view := configView{
		Dataverse: dataverseView{
			URL:             cfg.Dataverse.URL,
			TenantID:        cfg.Dataverse.TenantID,
			ClientID:        cfg.Dataverse.ClientID,
			ClientSecretEnv: cfg.Dataverse.ClientSecretEnv,
			ClientSecret:    secret,
			Authority:       cfg.Dataverse.Authority,
			APIVersion:      cfg.Dataverse.APIVersion,
			Timeout:         cfg.Dataverse.Timeout.String(),
		},
		Reconcile: cfg.Reconcile,
		Output: outputView{
			Dir:         cfg.Output.Dir,
			LockTimeout: cfg.Output.LockTimeout.String(),
		},
	}

	if global, err := config.GlobalConfigPath(); err == nil {
		view.Files = append(view.Files, configFile{Scope: "global", Path: global, Exists: exists(global)})
	}
	project := config.ProjectConfigPath()
	view.Files = append(view.Files, configFile{Scope: "project", Path: project, Exists: exists(project)})

	return view
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
