// Package bundle scans an unpacked solution bundle for the configuration slots
// a deployment settings document needs.
//
// The scanner reads through a billy.Filesystem so production code walks the
// real disk (osfs) while tests build bundles in memory (memfs).
package bundle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/dsf/internal/constants"
	"github.com/mrz1836/dsf/internal/domain"
	dsferrors "github.com/mrz1836/dsf/internal/errors"
	"github.com/mrz1836/dsf/internal/settings"
)

var errStopWalk = errors.New("stop walk")

// Scanner builds settings documents from bundles on one filesystem.
type Scanner struct {
	fs     billy.Filesystem
	prompt OwnerPrompt
}

// NewScanner creates a Scanner. A nil prompt leaves workflow owners null.
func NewScanner(fs billy.Filesystem, prompt OwnerPrompt) *Scanner {
	if prompt == nil {
		prompt = NoOwner{}
	}
	return &Scanner{fs: fs, prompt: prompt}
}

// Scan is shorthand for NewScanner(fs, prompt).Scan(ctx, root).
func Scan(ctx context.Context, fs billy.Filesystem, root string, prompt OwnerPrompt) (*settings.Document, error) {
	return NewScanner(fs, prompt).Scan(ctx, root)
}

// Scan walks the bundle at root and returns the assembled document. It does
// not persist it. Missing artifacts only shape the document; a malformed
// customizations file or an invalid owner address is fatal.
func (s *Scanner) Scan(ctx context.Context, root string) (*settings.Document, error) {
	log := zerolog.Ctx(ctx)

	info, err := s.fs.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to scan bundle '%s': %w", root, dsferrors.ErrBundleNotFound)
		}
		return nil, fmt.Errorf("failed to scan bundle '%s': %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to scan bundle '%s': not a directory: %w", root, dsferrors.ErrBundleNotFound)
	}

	defsDir, customizations, err := s.locate(ctx, root)
	if err != nil {
		return nil, err
	}

	doc := &settings.Document{}

	if defsDir != "" {
		vars, err := s.environmentVariables(defsDir)
		if err != nil {
			return nil, err
		}
		doc.EnvironmentVariables = settings.Present(vars...)
		log.Info().Str("dir", defsDir).Int("count", len(vars)).Msg("environment variable definitions found")
	} else {
		log.Info().Err(dsferrors.ErrMissingArtifact).Str("name", constants.EnvironmentVariableDefinitionsDir).Msg("no environment variable definitions")
	}

	refs, err := s.connectionReferences(ctx, customizations)
	if err != nil {
		return nil, err
	}
	doc.ConnectionReferences = settings.Present(refs...)

	flows, found, err := s.workflows(ctx, root)
	if err != nil {
		return nil, err
	}
	if found {
		doc.WorkflowOwnership = settings.Present(flows...)
	}

	return doc, nil
}

// locate finds the first environment variable definitions directory and the
// first customizations file under root, in lexical depth-first order.
func (s *Scanner) locate(ctx context.Context, root string) (defsDir, customizations string, err error) {
	err = util.Walk(s.fs, root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		switch {
		case info.IsDir() && defsDir == "" && info.Name() == constants.EnvironmentVariableDefinitionsDir:
			defsDir = path
		case !info.IsDir() && customizations == "" && info.Name() == constants.CustomizationsFileName:
			customizations = path
		}

		if defsDir != "" && customizations != "" {
			return errStopWalk
		}
		return nil
	})
	if errors.Is(err, errStopWalk) {
		err = nil
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to walk bundle '%s': %w", root, err)
	}
	return defsDir, customizations, nil
}

// environmentVariables returns one empty slot per immediate subdirectory of dir.
func (s *Scanner) environmentVariables(dir string) ([]domain.EnvironmentVariable, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	vars := make([]domain.EnvironmentVariable, 0, len(names))
	for _, name := range names {
		vars = append(vars, domain.EnvironmentVariable{SchemaName: name})
	}
	return vars, nil
}

// connectionReferences parses the customizations file at path. An empty
// path or a file without a container element yields no slots.
func (s *Scanner) connectionReferences(ctx context.Context, path string) ([]domain.ConnectionReference, error) {
	log := zerolog.Ctx(ctx)

	if path == "" {
		log.Info().Err(dsferrors.ErrMissingArtifact).Str("name", constants.CustomizationsFileName).Msg("no customizations file")
		return nil, nil
	}

	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", path, err)
	}
	defer func() { _ = f.Close() }()

	refs, found, err := parseConnectionReferences(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", path, err)
	}
	if !found {
		log.Info().Err(dsferrors.ErrMissingArtifact).Str("file", path).Msg("no connection references in customizations")
		return nil, nil
	}

	log.Info().Str("file", path).Int("count", len(refs)).Msg("connection references found")
	return refs, nil
}

// workflows builds ownership slots for Workflows/*.json directly under root.
// found is false when the directory does not exist.
func (s *Scanner) workflows(ctx context.Context, root string) ([]domain.WorkflowOwnership, bool, error) {
	log := zerolog.Ctx(ctx)
	dir := s.fs.Join(root, constants.WorkflowsDir)

	info, err := s.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, false, fmt.Errorf("failed to stat '%s': %w", dir, err)
		}
		log.Info().Err(dsferrors.ErrMissingArtifact).Str("name", constants.WorkflowsDir).Msg("no workflows")
		return nil, false, nil
	}

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read '%s': %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(constants.WorkflowFilePattern, e.Name()); ok {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return []domain.WorkflowOwnership{}, true, nil
	}

	owner, err := s.owner(ctx, len(files))
	if err != nil {
		return nil, false, err
	}

	flows := make([]domain.WorkflowOwnership, 0, len(files))
	for _, name := range files {
		id := ComponentUniqueName(name)
		if _, err := uuid.Parse(id); err != nil {
			log.Warn().Str("file", name).Str("unique_name", id).Msg("workflow file name does not end in a GUID")
		}
		flows = append(flows, domain.WorkflowOwnership{
			ComponentType:       constants.WorkflowComponentType,
			ComponentUniqueName: id,
			OwnerEmail:          owner,
		})
	}

	log.Info().Str("dir", dir).Int("count", len(flows)).Bool("owner", owner != nil).Msg("workflows found")
	return flows, true, nil
}

func (s *Scanner) owner(ctx context.Context, workflows int) (*string, error) {
	email, apply, err := s.prompt.PromptOwner(ctx, workflows, ValidateEmail)
	if err != nil {
		return nil, err
	}
	if !apply {
		return nil, nil
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	return domain.StringPtr(email), nil
}

// ComponentUniqueName derives a workflow's unique name from its file name:
// the last 36 characters of the stem, or the whole stem when shorter.
func ComponentUniqueName(fileName string) string {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	r := []rune(stem)
	if len(r) <= constants.ComponentUniqueNameLength {
		return stem
	}
	return string(r[len(r)-constants.ComponentUniqueNameLength:])
}
