package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jsondump/jsondump/pkg/logging"
	"github.com/spf13/afero"
)

// artifactPerm restricts stored files to owner read/write and group read.
const artifactPerm = 0o640

// maxNameAttempts caps the collision-retry loop in Put.
const maxNameAttempts = 5

// ErrNameExhausted is returned when every generated name already exists in
// the storage directory after the maximum number of attempts.
var ErrNameExhausted = errors.New("exhausted filename generation attempts")

// Artifact describes one persisted JSON document.
type Artifact struct {
	Name      string
	Size      int64
	CreatedAt time.Time
}

// Store persists JSON documents as uniquely named files in a flat directory.
// It is safe for concurrent use: each Put targets a freshly generated name
// and publishes it with an atomic rename, so no cross-request locking is
// needed.
type Store struct {
	fs     afero.Fs
	dir    string
	logger *logging.Logger

	// now is swapped out in tests to pin the timestamp component.
	now func() time.Time
}

// NewStore returns a Store rooted at dir. The directory must already exist;
// creating it is the caller's responsibility.
func NewStore(fs afero.Fs, dir string, logger *logging.Logger) (*Store, error) {
	info, err := fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("storage directory %s is not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage path %s is not a directory", dir)
	}

	return &Store{
		fs:     fs,
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Dir returns the storage directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Put writes content to a new uniquely named file and returns the resulting
// artifact. The file becomes visible under its final name only after the
// complete content has been written and flushed; observers never see a
// partial artifact. On any error nothing is left behind, including the
// temporary file.
func (s *Store) Put(content []byte) (*Artifact, error) {
	createdAt := s.now()

	name, err := s.reserveName(createdAt)
	if err != nil {
		return nil, err
	}

	if err := s.writeAtomic(name, content); err != nil {
		return nil, err
	}

	s.logger.Debug("artifact committed", "file", name, "size", len(content))

	return &Artifact{
		Name:      name,
		Size:      int64(len(content)),
		CreatedAt: createdAt,
	}, nil
}

// Read returns the raw bytes of a previously stored artifact.
func (s *Store) Read(name string) ([]byte, error) {
	return afero.ReadFile(s.fs, filepath.Join(s.dir, name))
}

// reserveName generates a fresh name, regenerating on collision with an
// existing file. Attempts are bounded; exhausting them is a storage error,
// not an overwrite.
func (s *Store) reserveName(t time.Time) (string, error) {
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := filenameAt(t)

		exists, err := afero.Exists(s.fs, filepath.Join(s.dir, name))
		if err != nil {
			return "", fmt.Errorf("checking name %s: %w", name, err)
		}
		if !exists {
			return name, nil
		}

		s.logger.Warn("filename collision, regenerating", "file", name, "attempt", attempt+1)
	}

	return "", ErrNameExhausted
}

// writeAtomic writes content to a temporary file in the storage directory
// and renames it into place. The temporary file is removed on every failure
// path.
func (s *Store) writeAtomic(name string, content []byte) (err error) {
	tmp, err := afero.TempFile(s.fs, s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			if removeErr := s.fs.Remove(tmpName); removeErr != nil {
				s.logger.Error("failed to remove temp file", "file", tmpName, "error", removeErr)
			}
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("flushing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err = s.fs.Chmod(tmpName, artifactPerm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err = s.fs.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("publishing %s: %w", name, err)
	}

	return nil
}
