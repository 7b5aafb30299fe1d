// Package minio provides a filestore.Store backed by MinIO and other
// S3-compatible object stores.
//
// Objects are immutable: opening an existing target for writing fails with
// filestore.ErrAppendUnsupported, so sessions on this store always start
// fresh targets.
package minio

import (
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/minio/minio-go/v7"

	"github.com/ewhauser/scribe/filestore"
)

// Store implements filestore.Store for MinIO.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a MinIO-backed store.
// rootPrefix is prepended to all keys (e.g. "scribe/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

func isNotFound(err error) bool {
	errResp := minio.ToErrorResponse(err)
	return errResp.Code == "NoSuchKey" || errResp.Code == "NotFound"
}

// OpenRead opens an existing object for reading.
func (s *Store) OpenRead(ctx context.Context, name string) (filestore.ReadableFile, error) {
	key := s.key(name)

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, filestore.ErrNotFound
		}
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return &minioReadFile{obj: obj, size: info.Size}, nil
}

// OpenWrite opens a fresh object for a streaming upload. Objects cannot be
// appended to; an existing target is reported with ErrAppendUnsupported.
func (s *Store) OpenWrite(ctx context.Context, name string) (filestore.WritableFile, bool, error) {
	key := s.key(name)

	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return nil, true, filestore.ErrAppendUnsupported
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	pr, pw := io.Pipe()
	f := &minioWriteFile{
		pw:   pw,
		done: make(chan error, 1),
	}

	go func() {
		_, err := s.client.PutObject(ctx, s.bucket, key, pr, -1, minio.PutObjectOptions{})
		_ = pr.CloseWithError(err)
		f.done <- err
	}()

	return f, false, nil
}

// Delete removes an object; removing an absent object is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// Size reports an object's stored size.
func (s *Store) Size(ctx context.Context, name string) (int64, error) {
	info, err := s.client.StatObject(ctx, s.bucket, s.key(name), minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return 0, filestore.ErrNotFound
		}
		return 0, err
	}
	return info.Size, nil
}

// List returns the sorted entry names directly under dir.
func (s *Store) List(ctx context.Context, dir string) ([]string, error) {
	fullPrefix := s.key(dir)
	if fullPrefix != "" {
		fullPrefix += "/"
	}

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    fullPrefix,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimPrefix(obj.Key, fullPrefix)
		name = strings.TrimSuffix(name, "/") // common prefixes end with one
		if name != "" {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

// Exists reports whether an object exists.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, s.key(name), minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type minioReadFile struct {
	obj  *minio.Object
	size int64
}

func (f *minioReadFile) Read(p []byte) (int, error) { return f.obj.Read(p) }
func (f *minioReadFile) Close() error               { return f.obj.Close() }
func (f *minioReadFile) Size() int64                { return f.size }

// minioWriteFile streams writes into a background PutObject through a pipe.
// The upload is finalized on Close; Sync is a no-op since object stores
// expose no partial durability.
type minioWriteFile struct {
	pw     *io.PipeWriter
	done   chan error
	closed atomic.Bool
}

func (f *minioWriteFile) Write(p []byte) (int, error) {
	if f.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	return f.pw.Write(p)
}

func (f *minioWriteFile) Sync() error { return nil }

func (f *minioWriteFile) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return errors.New("minio: already closed")
	}
	if err := f.pw.Close(); err != nil {
		return err
	}
	return <-f.done
}
