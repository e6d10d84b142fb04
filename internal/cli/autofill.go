package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/dsf/internal/config"
	"github.com/mrz1836/dsf/internal/dataverse"
	"github.com/mrz1836/dsf/internal/errors"
	"github.com/mrz1836/dsf/internal/pipeline"
	"github.com/mrz1836/dsf/internal/reconcile"
	"github.com/mrz1836/dsf/internal/tui"
)

// AutofillFlags holds flags for the autofill command.
type AutofillFlags struct {
	// Connections runs only the connection reference stage (with Variables, both).
	Connections bool
	// Variables runs only the environment variable stage (with Connections, both).
	Variables bool

	URL      string
	TenantID string
	ClientID string
	Policy   string
}

// AddAutofillCommand adds the autofill command to the root command.
func AddAutofillCommand(root *cobra.Command) {
	root.AddCommand(newAutofillCmd(&AutofillFlags{}, dataverseConnector))
}

// connectorFactory builds the remote directory connector for a configuration.
type connectorFactory func(cfg *config.Config) pipeline.Connector

func newAutofillCmd(flags *AutofillFlags, connect connectorFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autofill <settings.json>",
		Short: "Fill connection ids and variable values from the target environment",
		Long: `Connect to the target environment and fill the settings file in place.

Stages run in order and each one saves the file when it finishes:
  connections   set ConnectionId of each connection reference from the
                environment's connection references
  variables     set Value of each environment variable from the
                environment's current values

A failing stage leaves the file as the previous stage wrote it.

The client secret is read from $DSF_DATAVERSE_CLIENT_SECRET (or the variable
named by dataverse.client_secret_env); it is never accepted as a flag.

Examples:
  dsf autofill MySolution_deploymentSettings.json
  dsf autofill settings.json --connections --url https://contoso.crm.dynamics.com
  dsf autofill settings.json --variables -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAutofill(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], flags, connect)
		},
	}

	cmd.Flags().BoolVar(&flags.Connections, "connections", false, "run the connection reference stage")
	cmd.Flags().BoolVar(&flags.Variables, "variables", false, "run the environment variable stage")
	cmd.Flags().StringVar(&flags.URL, "url", "", "organization URL (overrides dataverse.url)")
	cmd.Flags().StringVar(&flags.TenantID, "tenant-id", "", "tenant id (overrides dataverse.tenant_id)")
	cmd.Flags().StringVar(&flags.ClientID, "client-id", "", "client id (overrides dataverse.client_id)")
	cmd.Flags().StringVar(&flags.Policy, "policy", "", "connection policy: shared or any (overrides reconcile.connection_policy)")

	return cmd
}

func runAutofill(ctx context.Context, cmd *cobra.Command, w io.Writer, path string, flags *AutofillFlags, connect connectorFactory) error {
	ctx = commandContext(ctx)
	format := cmd.Flag("output").Value.String()
	out := tui.NewOutput(w, format)

	cfg, err := config.LoadWithOverrides(ctx, &config.Config{
		Dataverse: config.DataverseConfig{URL: flags.URL, TenantID: flags.TenantID, ClientID: flags.ClientID},
		Reconcile: config.ReconcileConfig{ConnectionPolicy: flags.Policy},
	})
	if err != nil {
		return errors.NewExitCode2Error(err)
	}

	opts, err := reconcileOptions(cfg)
	if err != nil {
		return errors.NewExitCode2Error(err)
	}

	result, err := pipeline.New(newSettingsStore(ctx, cfg)).Autofill(ctx, pipeline.AutofillRequest{
		Path:    path,
		Connect: connect(cfg),
		Stages:  selectedStages(flags),
		Options: opts,
	})
	if err != nil {
		if result != nil && format != OutputJSON {
			printAutofillResult(out, result)
		}
		return err
	}

	if format == OutputJSON {
		return out.JSON(result)
	}
	printAutofillResult(out, result)
	out.Success(fmt.Sprintf("Updated %s", path))
	return nil
}

func printAutofillResult(out tui.Output, result *pipeline.AutofillResult) {
	section := func(title string, r *reconcile.Report) {
		if r == nil {
			return
		}
		out.Info(fmt.Sprintf("%s: %s", title, tui.ReportSummary(r)))
		if len(r.Results) > 0 {
			out.Table(tui.ReportTable(r))
		}
		if r.Aborted {
			out.Warning("Connection matching stopped early: a connector matched but no slot shares its name.")
		}
	}
	section("Connection references", result.Connections)
	section("Environment variables", result.Variables)
}

// selectedStages maps the stage flags to pipeline stages; none selected runs all.
func selectedStages(flags *AutofillFlags) []pipeline.Stage {
	var stages []pipeline.Stage
	if flags.Connections {
		stages = append(stages, pipeline.StageConnections)
	}
	if flags.Variables {
		stages = append(stages, pipeline.StageVariables)
	}
	return stages
}

// reconcileOptions builds reconciliation options from the reconcile section.
func reconcileOptions(cfg *config.Config) (reconcile.Options, error) {
	policy, err := reconcile.PolicyByName(cfg.Reconcile.ConnectionPolicy)
	if err != nil {
		return reconcile.Options{}, err
	}
	onEmpty, err := reconcile.ParseEmptyGroupBehavior(cfg.Reconcile.OnEmptyGroup)
	if err != nil {
		return reconcile.Options{}, err
	}
	return reconcile.Options{
		Policy:       policy,
		OnEmptyGroup: onEmpty,
		Sentinel:     cfg.Reconcile.Sentinel,
	}, nil
}

// dataverseConnector connects to the organization in cfg.Dataverse.
func dataverseConnector(cfg *config.Config) pipeline.Connector {
	return func(ctx context.Context) (reconcile.RemoteDirectory, error) {
		dv := cfg.Dataverse
		client, err := dataverse.Connect(ctx, dataverse.Config{
			URL:          dv.URL,
			TenantID:     dv.TenantID,
			ClientID:     dv.ClientID,
			ClientSecret: dv.ClientSecret(),
			Authority:    dv.Authority,
			APIVersion:   dv.APIVersion,
			Timeout:      dv.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
