package filestore

import (
	"bytes"
	"context"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store implementation for testing. It supports
// append, so the full session lifecycle can be exercised without a
// filesystem. Thread-safe for concurrent use across sessions.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

// OpenRead opens a stored target for reading.
func (m *MemoryStore) OpenRead(_ context.Context, name string) (ReadableFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[name]
	if !ok {
		return nil, ErrNotFound
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return &memoryReadFile{Reader: bytes.NewReader(copied), size: int64(len(copied))}, nil
}

// OpenWrite opens a target for writing. Writes are staged and become
// visible on Close; an existing target is appended to.
func (m *MemoryStore) OpenWrite(_ context.Context, name string) (WritableFile, bool, error) {
	m.mu.RLock()
	prior, existed := m.files[name]
	base := append([]byte(nil), prior...)
	m.mu.RUnlock()

	return &memoryWriteFile{store: m, name: name, base: base}, existed, nil
}

// Delete removes a target; removing an absent target is not an error.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
	return nil
}

// Size reports the stored size of a target.
func (m *MemoryStore) Size(_ context.Context, name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[name]
	if !ok {
		return 0, ErrNotFound
	}
	return int64(len(data)), nil
}

// List returns the sorted entry names directly under dir.
func (m *MemoryStore) List(_ context.Context, dir string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	prefix := strings.TrimSuffix(dir, "/")
	for name := range m.files {
		if prefix != "" && !strings.HasPrefix(name, prefix+"/") {
			continue
		}
		rest := name
		if prefix != "" {
			rest = strings.TrimPrefix(name, prefix+"/")
		}
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		if rest != "" {
			seen[path.Base(rest)] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a target exists.
func (m *MemoryStore) Exists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[name]
	return ok, nil
}

// Bytes returns a copy of a stored target, for test assertions.
func (m *MemoryStore) Bytes(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[name]
	if !ok {
		return nil, false
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, true
}

type memoryReadFile struct {
	*bytes.Reader
	size int64
}

func (f *memoryReadFile) Close() error { return nil }
func (f *memoryReadFile) Size() int64  { return f.size }

type memoryWriteFile struct {
	store  *MemoryStore
	name   string
	base   []byte // prior content when appending
	buf    bytes.Buffer
	closed bool
}

func (f *memoryWriteFile) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

// Sync publishes the staged bytes without closing the handle.
func (f *memoryWriteFile) Sync() error {
	f.publish()
	return nil
}

func (f *memoryWriteFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.publish()
	return nil
}

// publish replaces the stored target with the prior content plus everything
// staged so far. Calling it repeatedly is safe.
func (f *memoryWriteFile) publish() {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	f.store.files[f.name] = append(append([]byte(nil), f.base...), f.buf.Bytes()...)
}
