// Package storage maps logical names to backing files inside a single
// directory and performs the raw byte I/O for them. It is the only layer
// that opens files; containers above it never touch the filesystem
// directly. All access goes through a billy.Filesystem, so a store can be
// backed by the local disk (osfs) or kept entirely in memory (memfs) for
// tests.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Store reads and writes encoded values as whole files named "<name><ext>"
// at the root of its filesystem. It is stateless — every call performs I/O
// without caching. File handles are opened and released within each call.
type Store struct {
	fs  billy.Filesystem
	ext string
}

// New creates a Store over fs using ext (including the leading dot) as the
// backing-file extension.
func New(fs billy.Filesystem, ext string) *Store {
	return &Store{fs: fs, ext: ext}
}

// NewOS creates a Store over the local directory dir. The directory must
// exist before the first write.
func NewOS(dir, ext string) *Store {
	return New(osfs.New(dir), ext)
}

// Path returns the file name backing the given logical name.
func (s *Store) Path(name string) string {
	return name + s.ext
}

// Read returns the contents of the backing file for name. A missing file is
// reported as ErrNotExist; callers decide whether that is an error.
func (s *Store) Read(_ context.Context, name string) ([]byte, error) {
	f, err := s.fs.Open(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailed, name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailed, name, err)
	}
	return data, nil
}

// Write replaces the backing file for name with data. The write goes through
// a temporary file and a rename, so readers never observe a partial file.
func (s *Store) Write(_ context.Context, name string, data []byte) error {
	tmp, err := s.fs.TempFile("", ".tmp-"+name+"-")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, name, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, name, err)
	}

	if err := s.fs.Rename(tmpName, s.Path(name)); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, name, err)
	}
	return nil
}

// Delete removes the backing file for name. Deleting a file that does not
// exist is a success, so delete-on-absent callers are idempotent; any other
// failure is surfaced.
func (s *Store) Delete(_ context.Context, name string) error {
	if err := s.fs.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %s: %v", ErrDeleteFailed, name, err)
	}
	return nil
}

// List returns the logical names (extension stripped, sorted) of every
// backing file in the directory. A missing directory yields an empty list.
// Hidden files and files without the store's extension are skipped.
func (s *Store) List(_ context.Context) ([]string, error) {
	infos, err := s.fs.ReadDir("/")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	var names []string
	for _, info := range infos {
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			continue
		}
		if !strings.HasSuffix(info.Name(), s.ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(info.Name(), s.ext))
	}
	sort.Strings(names)
	return names, nil
}
