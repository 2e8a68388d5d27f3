package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/starford/warband/internal/apperr"
	"github.com/starford/warband/internal/models"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// ValidID reports whether id can name a snapshot document.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// IDFromPath returns the warband id for a snapshot file name, or "" when
// the name is not a snapshot document.
func IDFromPath(path string) string {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, Ext) {
		return ""
	}
	id := strings.TrimSuffix(base, Ext)
	if !ValidID(id) {
		return ""
	}
	return id
}

// Checksum returns the hex SHA-256 of a snapshot document.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// FS implements Provider backed by a flat directory on the local file system.
type FS struct {
	root string // absolute path to snapshot directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute snapshot directory.
func (f *FS) Root() string { return f.root }

// path maps id to its document path and rejects anything that could escape
// the root.
func (f *FS) path(id string) (string, error) {
	if !ValidID(id) {
		return "", fmt.Errorf("storage: %q: %w", id, apperr.ErrInvalidID)
	}
	abs := filepath.Join(f.root, id+Ext)
	if filepath.Dir(abs) != f.root {
		return "", fmt.Errorf("storage: %q escapes root: %w", id, apperr.ErrInvalidID)
	}
	return abs, nil
}

// List returns metadata for every snapshot document directly under root.
func (f *FS) List() ([]models.SnapshotMeta, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	out := []models.SnapshotMeta{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id := IDFromPath(e.Name())
		if id == "" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("storage: list: %w", err)
		}
		data, err := os.ReadFile(filepath.Join(f.root, e.Name()))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("storage: list: %w", err)
		}
		out = append(out, models.SnapshotMeta{
			ID:        id,
			Checksum:  Checksum(data),
			UpdatedAt: info.ModTime(),
		})
	}
	return out, nil
}

// Read returns the raw bytes of a snapshot document.
func (f *FS) Read(id string) ([]byte, error) {
	abs, err := f.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", id, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(id string, content []byte) error {
	abs, err := f.path(id)
	if err != nil {
		return err
	}

	// The temp name has no .json suffix so the watcher ignores it.
	tmp, err := os.CreateTemp(f.root, ".warband-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes a snapshot document.
func (f *FS) Delete(id string) error {
	abs, err := f.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("storage: delete %s: %w", id, apperr.ErrNotFound)
		}
		return fmt.Errorf("storage: delete %s: %w", id, err)
	}
	return nil
}
