package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LocalStore implements Store on the local filesystem, rooted at a
// directory. Parent directories are created implicitly on write, matching
// the store-side behavior scribe expects.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, name)
}

// OpenRead opens a file for sequential reading.
func (s *LocalStore) OpenRead(_ context.Context, name string) (ReadableFile, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &localReadFile{File: f, size: st.Size()}, nil
}

// OpenWrite opens a file for sequential writing, creating parent
// directories as needed. An existing file is opened in append mode and
// reported as such.
func (s *LocalStore) OpenWrite(_ context.Context, name string) (WritableFile, bool, error) {
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, false, fmt.Errorf("filestore: create parent directories: %w", err)
	}

	existed := false
	if _, err := os.Stat(path); err == nil {
		existed = true
	}

	flags := os.O_WRONLY | os.O_CREATE
	if existed {
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0o644) //nolint:gosec // G304: path is store-rooted
	if err != nil {
		return nil, existed, err
	}
	return f, existed, nil
}

// Delete removes a file. An absent file is not an error.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Size reports the file size.
func (s *LocalStore) Size(_ context.Context, name string) (int64, error) {
	st, err := os.Stat(s.path(name))
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}

// List returns the sorted entry names directly under dir.
func (s *LocalStore) List(_ context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(s.path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a file exists.
func (s *LocalStore) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(s.path(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

type localReadFile struct {
	*os.File
	size int64
}

func (f *localReadFile) Size() int64 { return f.size }
