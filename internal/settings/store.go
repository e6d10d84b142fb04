package settings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/dsf/internal/constants"
	dsferrors "github.com/mrz1836/dsf/internal/errors"
	"github.com/mrz1836/dsf/internal/flock"
)

const (
	filePerm = 0o644
	dirPerm  = 0o750
)

// Store reads and writes settings documents on the local filesystem.
// Every operation holds an exclusive lock for its document, and writes go
// through a temp file and rename so a failed write never leaves a partial file.
type Store struct {
	lockDir     string
	lockTimeout time.Duration
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLockDir keeps lock files in dir, keyed by a hash of the document path,
// instead of next to the document.
func WithLockDir(dir string) StoreOption {
	return func(s *Store) {
		s.lockDir = dir
	}
}

// WithLockTimeout overrides how long to wait for a held lock.
func WithLockTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// NewStore creates a Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{lockTimeout: constants.LockTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads, validates and decodes the document at path.
// Returns ErrSettingsNotFound if the file does not exist and
// ErrSettingsCorrupted if it fails schema validation.
func (s *Store) Load(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock, err := s.lock(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	return s.read(ctx, path)
}

// Save encodes doc and writes it to path, replacing any existing file.
func (s *Store) Save(ctx context.Context, path string, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(doc)
	if err != nil {
		return err
	}

	lock, err := s.lock(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	return s.write(ctx, path, data)
}

// Update loads the document at path, applies fn and saves the result, all
// under one lock. If fn returns an error nothing is written and the file on
// disk is left exactly as it was.
func (s *Store) Update(ctx context.Context, path string, fn func(*Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock, err := s.lock(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	doc, err := s.read(ctx, path)
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	data, err := Encode(doc)
	if err != nil {
		return err
	}
	return s.write(ctx, path, data)
}

// LockPath returns the lock file guarding the document at path.
func (s *Store) LockPath(path string) string {
	if s.lockDir == "" {
		return path + constants.LockFileSuffix
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(s.lockDir, hex.EncodeToString(sum[:8])+constants.LockFileSuffix)
}

func (s *Store) lock(ctx context.Context, path string) (*flock.Lock, error) {
	return flock.Acquire(ctx, s.LockPath(path), s.lockTimeout)
}

func (s *Store) read(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is the user-selected settings file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read settings '%s': %w", path, dsferrors.ErrSettingsNotFound)
		}
		return nil, fmt.Errorf("failed to read settings '%s': %w", path, err)
	}

	if err := Validate(data, filepath.Base(path)); err != nil {
		return nil, fmt.Errorf("failed to read settings '%s': %w", path, err)
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings '%s': %w: %w", path, dsferrors.ErrSettingsCorrupted, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("environment_variables", doc.EnvironmentVariables.Len()).
		Int("connection_references", doc.ConnectionReferences.Len()).
		Int("workflows", doc.WorkflowOwnership.Len()).
		Msg("settings loaded")

	return doc, nil
}

func (s *Store) write(ctx context.Context, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	if err := atomicWrite(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write settings '%s': %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("bytes", len(data)).
		Msg("settings saved")
	return nil
}

// atomicWrite writes data to a sibling temp file, syncs it and renames it
// over path.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + constants.TempFileSuffix
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm) //#nosec G304 -- path is derived from the settings path
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
