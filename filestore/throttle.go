package filestore

import (
	"context"

	"golang.org/x/time/rate"
)

// ThrottledStore wraps a Store and limits the aggregate write throughput of
// every handle it opens. Reads and metadata operations pass through
// unthrottled.
type ThrottledStore struct {
	Store
	limiter *rate.Limiter
}

// Throttle wraps inner with a shared write-rate limit. bytesPerSec also
// bounds the largest single write that is admitted without splitting.
func Throttle(inner Store, bytesPerSec int) *ThrottledStore {
	return &ThrottledStore{
		Store:   inner,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

// OpenWrite opens a throttled write handle. The handle reserves rate budget
// with the context passed here, so canceling it aborts waiting writers.
func (s *ThrottledStore) OpenWrite(ctx context.Context, name string) (WritableFile, bool, error) {
	f, existed, err := s.Store.OpenWrite(ctx, name)
	if err != nil {
		return nil, existed, err
	}
	return &throttledFile{inner: f, limiter: s.limiter, ctx: ctx}, existed, nil
}

type throttledFile struct {
	inner   WritableFile
	limiter *rate.Limiter
	ctx     context.Context
}

func (f *throttledFile) Write(p []byte) (int, error) {
	burst := f.limiter.Burst()
	written := 0

	for written < len(p) {
		n := len(p) - written
		if n > burst {
			n = burst
		}
		if err := f.limiter.WaitN(f.ctx, n); err != nil {
			return written, err
		}
		m, err := f.inner.Write(p[written : written+n])
		written += m
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func (f *throttledFile) Sync() error  { return f.inner.Sync() }
func (f *throttledFile) Close() error { return f.inner.Close() }
