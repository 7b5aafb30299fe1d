// Package filestore abstracts the distributed file store that scribe
// sessions write into.
//
// A Store hands out sequential write handles and answers the small set of
// pass-through queries a shipper needs (size, existence, directory listing,
// delete). Backends exist for the local filesystem, an in-memory map for
// tests, and S3-compatible object stores (see the minio and s3
// subpackages). Object stores cannot append, which callers must be prepared
// for via ErrAppendUnsupported.
package filestore

import (
	"context"
	"errors"
	"io"
	"os"
)

// ErrNotFound is returned when a target does not exist.
//
// Implementations return an error satisfying `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrAppendUnsupported is returned by OpenWrite when the target already
// exists and the backend cannot append to it.
var ErrAppendUnsupported = errors.New("filestore: backend does not support append")

// Store is the boundary to the external file store. Implementations may
// block on network I/O; they must write bytes in the order received and
// never reorder across a handle.
type Store interface {
	// OpenRead opens an existing target for sequential reading.
	OpenRead(ctx context.Context, name string) (ReadableFile, error)

	// OpenWrite opens a target for sequential writing, creating it when
	// absent. The returned flag reports that the target already existed
	// and the handle appends to it; backends that cannot append return
	// ErrAppendUnsupported in that case.
	OpenWrite(ctx context.Context, name string) (WritableFile, bool, error)

	// Delete removes a target. Deleting an absent target is not an error.
	Delete(ctx context.Context, name string) error

	// Size reports the byte size of a target.
	Size(ctx context.Context, name string) (int64, error)

	// List returns the entry names directly under dir, sorted.
	List(ctx context.Context, dir string) ([]string, error)

	// Exists reports whether a target exists.
	Exists(ctx context.Context, name string) (bool, error)
}

// WritableFile is a sequential write handle. Sync pushes buffered bytes to
// the backing store; Close finalizes the target.
type WritableFile interface {
	io.WriteCloser
	Sync() error
}

// ReadableFile is a sequential read handle.
type ReadableFile interface {
	io.ReadCloser
	// Size returns the total size of the target in bytes.
	Size() int64
}
