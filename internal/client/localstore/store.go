// Package localstore persists each data collection as one JSON document in a
// private directory. Documents are whole-file replaced on save; a failed save
// leaves the previous version on disk.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/charkeeper/internal/common"
)

// Store reads and writes named collection documents under a single directory.
// It keeps no state of its own beyond the directory path; callers own the
// authoritative in-memory copies.
type Store struct {
	dir string
}

// New ensures dir exists and returns a Store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load decodes the named document into v. A missing file maps to
// common.ErrNotFound; malformed content surfaces as a decode error. Both are
// recoverable conditions for the caller, never fatal.
func (s *Store) Load(name string, v any) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("collection %s: %w", name, common.ErrNotFound)
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Save encodes v as indented JSON and replaces the named document. The write
// goes to a temp file first and is moved into place, so a failure mid-write
// does not clobber the previous document.
func (s *Store) Save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", name, err)
	}

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmp.Name())
		if werr != nil {
			return fmt.Errorf("write %s: %w", name, werr)
		}
		return fmt.Errorf("close %s: %w", name, cerr)
	}

	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
