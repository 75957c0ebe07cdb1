// Package gitstore keeps the board inside a git repository as a YAML blob
// referenced by refs/<namespace>/board. No working tree or commit is touched.
// With an encryption key the blob is sealed with AES-256-GCM.
package gitstore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/infra/crypto"
	"github.com/runoshun/treeboard/internal/infra/docstore"
)

// Store implements docstore.Storage using git plumbing (one blob and one ref).
//
// Data structure:
//
//	refs/<namespace>/
//	  board → blob (board document YAML)
type Store struct {
	repo      *git.Repository
	logger    *slog.Logger
	encryptor *crypto.Encryptor // nil stores plain YAML
	namespace string            // e.g., "treeboard"
	mu        sync.RWMutex
}

var _ docstore.Storage = (*Store)(nil)

// New opens the repository containing repoPath.
// encryptionKey is a 64 character hex key; empty disables encryption.
func New(repoPath, namespace, encryptionKey string, logger *slog.Logger) (*Store, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}

	var encryptor *crypto.Encryptor
	if encryptionKey != "" {
		encryptor, err = crypto.NewEncryptor(encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("create encryptor: %w", err)
		}
	}
	return NewWithRepoAndEncryptor(repo, namespace, encryptor, logger), nil
}

// NewWithRepo creates a Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string, logger *slog.Logger) *Store {
	return NewWithRepoAndEncryptor(repo, namespace, nil, logger)
}

// NewWithRepoAndEncryptor creates a Store with an existing repository and encryptor.
func NewWithRepoAndEncryptor(repo *git.Repository, namespace string, encryptor *crypto.Encryptor, logger *slog.Logger) *Store {
	return &Store{
		repo:      repo,
		namespace: namespace,
		encryptor: encryptor,
		logger:    logger.With("component", "gitstore"),
	}
}

// NewRemote opens the repository and returns a domain.Remote backed by it.
func NewRemote(repoPath, namespace, encryptionKey string, logger *slog.Logger) (*docstore.Remote, error) {
	s, err := New(repoPath, namespace, encryptionKey, logger)
	if err != nil {
		return nil, err
	}
	return docstore.NewRemote(s), nil
}

// boardRef returns the ref name holding the board blob.
func (s *Store) boardRef() plumbing.ReferenceName {
	return plumbing.ReferenceName("refs/" + s.namespace + "/board")
}

// View implements docstore.Storage.
func (s *Store) View(fn func(*docstore.Document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update implements docstore.Storage. A new blob is written and the ref moved only
// when fn succeeds.
func (s *Store) Update(fn func(*docstore.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	if s.encryptor != nil {
		data, err = s.encryptor.Encrypt(data)
		if err != nil {
			return fmt.Errorf("encrypt board: %w", err)
		}
	}
	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}
	ref := plumbing.NewHashReference(s.boardRef(), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set board ref: %w", err)
	}
	s.logger.Debug("board saved", "blob", hash.String())
	return nil
}

// IsInitialized reports whether the board ref exists.
func (s *Store) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.repo.Reference(s.boardRef(), true)
	return err == nil
}

// load reads the board document. A missing ref yields an empty document.
func (s *Store) load() (*docstore.Document, error) {
	ref, err := s.repo.Reference(s.boardRef(), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return docstore.NewDocument(), nil
		}
		return nil, fmt.Errorf("get board ref: %w", err)
	}

	data, err := s.readBlob(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	if s.encryptor != nil {
		data, err = s.encryptor.Decrypt(data)
		if err != nil {
			return nil, fmt.Errorf("decrypt board: %w", err)
		}
	}

	var doc docstore.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse board: %w", err)
	}
	if doc.Version > docstore.DocumentVersion {
		return nil, fmt.Errorf("board version %d: %w", doc.Version, domain.ErrUnsupportedVersion)
	}
	doc.Normalize()
	return &doc, nil
}

// writeBlob writes data to a blob and returns the hash.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}

	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}

	return hash, nil
}

// readBlob reads the content of a blob.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}
	return data, nil
}
