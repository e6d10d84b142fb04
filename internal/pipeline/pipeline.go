// Package pipeline runs the generate and autofill stages over a settings file.
//
// Every stage is a read-modify-write pass: the document is loaded, mutated in
// memory and written back only if the stage succeeded, so a failure leaves the
// file exactly as the previous stage wrote it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"

	"github.com/mrz1836/dsf/internal/bundle"
	"github.com/mrz1836/dsf/internal/constants"
	dsferrors "github.com/mrz1836/dsf/internal/errors"
	"github.com/mrz1836/dsf/internal/reconcile"
	"github.com/mrz1836/dsf/internal/settings"
)

// Stage names an autofill pass.
type Stage string

// Autofill stages, in run order.
const (
	StageConnections Stage = "connections"
	StageVariables   Stage = "variables"
)

// Connector opens a ready remote directory. The pipeline closes it.
type Connector func(ctx context.Context) (reconcile.RemoteDirectory, error)

// Pipeline runs stages against one settings store.
type Pipeline struct {
	store *settings.Store
}

// New creates a Pipeline.
func New(store *settings.Store) *Pipeline {
	return &Pipeline{store: store}
}

// GenerateRequest describes a scan.
type GenerateRequest struct {
	FS         billy.Filesystem
	BundleRoot string
	OutputPath string
	Owner      bundle.OwnerPrompt
}

// GenerateResult is the saved document and where it went.
type GenerateResult struct {
	Path     string
	Document *settings.Document
}

// Generate scans the bundle and saves the resulting document.
func (p *Pipeline) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	doc, err := bundle.NewScanner(req.FS, req.Owner).Scan(ctx, req.BundleRoot)
	if err != nil {
		return nil, err
	}

	if err := p.store.Save(ctx, req.OutputPath, doc); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("path", req.OutputPath).Msg("settings file written")
	return &GenerateResult{Path: req.OutputPath, Document: doc}, nil
}

// AutofillRequest describes an autofill run.
type AutofillRequest struct {
	Path    string
	Connect Connector

	// Stages to run; empty runs all of them.
	Stages  []Stage
	Options reconcile.Options
}

// AutofillResult holds one report per stage that ran.
type AutofillResult struct {
	Connections *reconcile.Report `json:"connections,omitempty"`
	Variables   *reconcile.Report `json:"variables,omitempty"`
}

// Autofill opens the remote directory and runs the selected stages in order.
// The directory is closed on every path. A stage that fails returns an error
// wrapping ErrRemoteUnavailable (or the store error) and earlier stages'
// output stays on disk.
func (p *Pipeline) Autofill(ctx context.Context, req AutofillRequest) (result *AutofillResult, err error) {
	log := zerolog.Ctx(ctx)
	stages := selectStages(req.Stages)

	// Fail on a missing or corrupted file before reaching out to the remote.
	if _, err := p.store.Load(ctx, req.Path); err != nil {
		return nil, err
	}

	dir, err := req.Connect(ctx)
	if err != nil {
		return nil, remoteErr("connect", err)
	}
	defer func() {
		if cerr := dir.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close remote directory")
		}
	}()

	result = &AutofillResult{}
	for _, stage := range stages {
		switch stage {
		case StageConnections:
			report, err := p.connections(ctx, req, dir)
			if err != nil {
				return result, err
			}
			result.Connections = report
		case StageVariables:
			report, err := p.variables(ctx, req, dir)
			if err != nil {
				return result, err
			}
			result.Variables = report
		}
	}
	return result, nil
}

func (p *Pipeline) connections(ctx context.Context, req AutofillRequest, dir reconcile.RemoteDirectory) (*reconcile.Report, error) {
	var report reconcile.Report
	err := p.store.Update(ctx, req.Path, func(doc *settings.Document) error {
		records, err := dir.ListConnectionReferenceRecords(ctx)
		if err != nil {
			return remoteErr(string(StageConnections), err)
		}
		report = reconcile.NewConnectionReconciler(req.Options).Reconcile(ctx, doc, records)
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int("matched", report.Count(reconcile.OutcomeMatched)).
		Int("no_connection", report.Count(reconcile.OutcomeNoConnection)).
		Int("unmatched", report.Count(reconcile.OutcomeUnmatched)).
		Bool("aborted", report.Aborted).
		Msg("connection references reconciled")
	return &report, nil
}

func (p *Pipeline) variables(ctx context.Context, req AutofillRequest, dir reconcile.RemoteDirectory) (*reconcile.Report, error) {
	var report reconcile.Report
	err := p.store.Update(ctx, req.Path, func(doc *settings.Document) error {
		names := doc.SchemaNames()
		if len(names) == 0 {
			report = reconcile.Report{Results: []reconcile.SlotResult{}}
			return nil
		}
		records, err := dir.ListVariableValueRecords(ctx, names)
		if err != nil {
			return remoteErr(string(StageVariables), err)
		}
		report = reconcile.ResolveVariables(ctx, doc, records)
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int("matched", report.Count(reconcile.OutcomeMatched)).
		Int("unmatched", report.Count(reconcile.OutcomeUnmatched)).
		Msg("environment variables resolved")
	return &report, nil
}

// ParseStages parses stage names as given on the command line.
func ParseStages(names []string) ([]Stage, error) {
	stages := make([]Stage, 0, len(names))
	for _, n := range names {
		switch s := Stage(strings.ToLower(strings.TrimSpace(n))); s {
		case StageConnections, StageVariables:
			stages = append(stages, s)
		default:
			return nil, fmt.Errorf("unknown stage %q", n)
		}
	}
	return stages, nil
}

// selectStages returns the requested stages in canonical order.
func selectStages(requested []Stage) []Stage {
	all := []Stage{StageConnections, StageVariables}
	if len(requested) == 0 {
		return all
	}
	want := make(map[Stage]bool, len(requested))
	for _, s := range requested {
		want[s] = true
	}
	out := make([]Stage, 0, len(all))
	for _, s := range all {
		if want[s] {
			out = append(out, s)
		}
	}
	return out
}

// DefaultOutputPath names the settings file for a bundle directory:
// <dir>/<bundle name>_deploymentSettings.json.
func DefaultOutputPath(dir, bundleRoot string) string {
	name := filepath.Base(filepath.Clean(bundleRoot))
	return filepath.Join(dir, name+constants.SettingsFileSuffix)
}

func remoteErr(stage string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, dsferrors.ErrRemoteUnavailable) {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return fmt.Errorf("%s: %w: %w", stage, dsferrors.ErrRemoteUnavailable, err)
}
