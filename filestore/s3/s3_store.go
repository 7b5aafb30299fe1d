// Package s3 provides a filestore.Store backed by Amazon S3.
//
// Objects are immutable: opening an existing target for writing fails with
// filestore.ErrAppendUnsupported. Uploads stream through the SDK's multipart
// uploader and are finalized on Close.
package s3

import (
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ewhauser/scribe/filestore"
)

// Client is the subset of the S3 API the store uses. *s3.Client satisfies
// it; tests substitute a mock.
type Client interface {
	manager.UploadAPIClient

	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// NewDefaultClient builds an S3 client from the ambient AWS configuration
// (environment, shared config, instance role).
func NewDefaultClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

// Store implements filestore.Store for S3.
type Store struct {
	client Client
	bucket string
	prefix string
}

// NewStore creates an S3-backed store.
// rootPrefix is prepended to all keys (e.g. "scribe/").
func NewStore(client Client, bucket, rootPrefix string) *Store {
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
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	return errors.As(err, &nsk)
}

// OpenRead opens an existing object for reading.
func (s *Store) OpenRead(ctx context.Context, name string) (filestore.ReadableFile, error) {
	key := s.key(name)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, filestore.ErrNotFound
		}
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return &s3ReadFile{body: obj.Body, size: aws.ToInt64(head.ContentLength)}, nil
}

// OpenWrite opens a fresh object for a streaming multipart upload. Objects
// cannot be appended to; an existing target is reported with
// ErrAppendUnsupported.
func (s *Store) OpenWrite(ctx context.Context, name string) (filestore.WritableFile, bool, error) {
	key := s.key(name)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return nil, true, filestore.ErrAppendUnsupported
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	pr, pw := io.Pipe()
	f := &s3WriteFile{
		pw:   pw,
		done: make(chan error, 1),
	}

	uploader := manager.NewUploader(s.client)
	go func() {
		_, err := uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   pr,
		})
		_ = pr.CloseWithError(err)
		f.done <- err
	}()

	return f, false, nil
}

// Delete removes an object. S3 deletes are idempotent, so an absent object
// is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	return err
}

// Size reports an object's stored size.
func (s *Store) Size(ctx context.Context, name string) (int64, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, filestore.ErrNotFound
		}
		return 0, err
	}
	return aws.ToInt64(head.ContentLength), nil
}

// List returns the sorted entry names directly under dir, using a delimited
// listing so nested objects show up as their first path segment.
func (s *Store) List(ctx context.Context, dir string) ([]string, error) {
	fullPrefix := s.key(dir)
	if fullPrefix != "" {
		fullPrefix += "/"
	}

	var names []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(fullPrefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), fullPrefix)
			if name != "" {
				names = append(names, name)
			}
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimPrefix(aws.ToString(cp.Prefix), fullPrefix)
			name = strings.TrimSuffix(name, "/")
			if name != "" {
				names = append(names, name)
			}
		}
	}

	sort.Strings(names)
	return names, nil
}

// Exists reports whether an object exists.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type s3ReadFile struct {
	body io.ReadCloser
	size int64
}

func (f *s3ReadFile) Read(p []byte) (int, error) { return f.body.Read(p) }
func (f *s3ReadFile) Close() error               { return f.body.Close() }
func (f *s3ReadFile) Size() int64                { return f.size }

// s3WriteFile streams writes into a background multipart upload through a
// pipe. The upload is finalized on Close; Sync is a no-op since the object
// does not exist until the upload completes.
type s3WriteFile struct {
	pw     *io.PipeWriter
	done   chan error
	closed atomic.Bool
}

func (f *s3WriteFile) Write(p []byte) (int, error) {
	if f.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	return f.pw.Write(p)
}

func (f *s3WriteFile) Sync() error { return nil }

func (f *s3WriteFile) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return io.ErrClosedPipe
	}
	if err := f.pw.Close(); err != nil {
		return err
	}
	return <-f.done
}
