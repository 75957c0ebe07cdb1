// Package jsonstore keeps the board in a JSON file guarded by a cross-process lock.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/infra/docstore"
)

// Store implements docstore.Storage using a JSON file.
// Fields are ordered to minimize memory padding.
type Store struct {
	logger   *slog.Logger
	path     string
	lockPath string
}

var _ docstore.Storage = (*Store)(nil)

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string, logger *slog.Logger) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
		logger:   logger.With("component", "jsonstore"),
	}
}

// NewRemote returns a domain.Remote backed by the JSON file at path.
func NewRemote(path string, logger *slog.Logger) *docstore.Remote {
	return docstore.NewRemote(New(path, logger))
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// View implements docstore.Storage with a shared lock.
func (s *Store) View(fn func(*docstore.Document) error) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	lock := flock.New(s.lockPath)
	if err := lock.RLock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer s.unlock(lock)

	doc, err := s.read()
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update implements docstore.Storage with an exclusive lock. The file is
// rewritten only when fn succeeds.
func (s *Store) Update(fn func(*docstore.Document) error) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	lock := flock.New(s.lockPath)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer s.unlock(lock)

	doc, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return nil
}

// unlock releases a lock taken by View or Update. Each call opens its own lock
// handle so goroutines of one process exclude each other as well.
func (s *Store) unlock(lock *flock.Flock) {
	if err := lock.Unlock(); err != nil {
		s.logger.Warn("release lock failed", "error", err)
	}
}

// read loads the document. A missing file yields an empty document.
func (s *Store) read() (*docstore.Document, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return docstore.NewDocument(), nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var doc docstore.Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if doc.Version > docstore.DocumentVersion {
		return nil, fmt.Errorf("store file version %d: %w", doc.Version, domain.ErrUnsupportedVersion)
	}

	// Ensure collections are initialized
	doc.Normalize()
	return &doc, nil
}

func (s *Store) write(doc *docstore.Document) error {
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("board saved", "path", s.path, "tasks", len(doc.Tasks))
	return nil
}
