package scribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ewhauser/scribe/codec"
	"github.com/ewhauser/scribe/filestore"
	"github.com/ewhauser/scribe/lzop"
)

// File is a write session for one store target. It selects the compression
// path from the target name, feeds the codec, pushes framed output to the
// store in order and handles codec degradation without losing bytes.
//
// A File is not safe for concurrent use; one session means one writer.
type File struct {
	store filestore.Store
	name  string
	opts  options
	log   *Logger

	handle filestore.WritableFile
	opened bool
	closed bool

	// Exactly one of these is set when a codec path is active.
	lzo    *lzop.Writer
	stream io.WriteCloser
}

// New creates a session for the named target. Nothing is opened until
// OpenWrite.
func New(store filestore.Store, name string, optFns ...Option) (*File, error) {
	if store == nil {
		return nil, ErrStoreUnavailable
	}
	if name == "" {
		return nil, errors.New("scribe: empty target name")
	}

	opts := applyOptions(optFns)
	if opts.level < 0 || opts.level > 9 {
		return nil, fmt.Errorf("scribe: compression level must be 0-9, got %d", opts.level)
	}

	return &File{
		store: store,
		name:  name,
		opts:  opts,
		log:   opts.logger.WithTarget(name),
	}, nil
}

// OpenWrite opens the target for writing and arms the compression path.
//
// When the target already exists the store appends to it and compression is
// disabled for the whole session, whatever level was configured: a shipped
// file must not mix headered and headerless content. On a fresh lzop target
// the stream header is written before any data.
func (f *File) OpenWrite(ctx context.Context) error {
	if f.closed {
		return ErrNotOpen
	}
	if f.opened {
		return ErrAlreadyOpen
	}

	handle, existed, err := f.store.OpenWrite(ctx, f.name)
	if err != nil {
		return fmt.Errorf("scribe: open %q: %w", f.name, err)
	}
	f.handle = handle
	f.opened = true

	if existed {
		f.log.Debug("appending to existing target, compression disabled")
		return nil
	}
	if f.opts.level == 0 {
		return nil
	}

	if strings.HasSuffix(f.name, lzop.Suffix) {
		if err := f.armLZO(); err != nil {
			f.abortOpen(ctx)
			return fmt.Errorf("scribe: arm codec for %q: %w", f.name, err)
		}
		return nil
	}

	selector := f.name
	if f.opts.suffix != "" {
		selector = f.opts.suffix
	}
	stream := f.opts.stream
	if stream == nil {
		stream, _ = codec.ForSuffix(selector)
	}
	if stream == nil {
		return nil
	}

	zw, err := stream.NewWriter(f.handle, f.opts.level)
	if err != nil {
		f.abortOpen(ctx)
		return fmt.Errorf("scribe: arm codec for %q: %w", f.name, err)
	}
	f.stream = zw
	f.log.Debug("stream codec armed", "suffix", stream.Suffix(), "level", f.opts.level)
	return nil
}

func (f *File) armLZO() error {
	w, err := lzop.NewWriter(f.name, func(o *lzop.Options) {
		o.Level = f.opts.level
		o.BlockSize = f.opts.blockSize
	})
	if err != nil {
		return err
	}

	hdr, err := w.Header()
	if err != nil {
		return err
	}
	if err := f.push(hdr); err != nil {
		return err
	}
	f.lzo = w
	f.log.Debug("lzop header written", "level", f.opts.level, "variant", w.Variant().String())
	return nil
}

// abortOpen tears down a half-armed session so OpenWrite fails cleanly.
func (f *File) abortOpen(ctx context.Context) {
	_ = f.handle.Close()
	_ = f.store.Delete(ctx, f.name)
	f.handle = nil
	f.opened = false
}

// Write feeds a chunk into the session. On the lzop path the chunk is
// buffered or framed per the block contract; a compression failure degrades
// to writing the pending bytes verbatim and the session stays usable.
// Store errors surface unchanged; there is no retry.
//
// The returned count is len(p) on success, matching io.Writer even though
// framed output is buffered rather than flushed byte for byte.
func (f *File) Write(p []byte) (int, error) {
	if !f.opened || f.closed {
		return 0, ErrNotOpen
	}

	switch {
	case f.lzo != nil:
		res, err := f.lzo.Append(p)
		if err != nil {
			if !errors.Is(err, lzop.ErrCompression) {
				return 0, err
			}
			return len(p), f.degrade(err)
		}
		if err := f.push(res.Framed); err != nil {
			return 0, err
		}
	case f.stream != nil:
		if _, err := f.stream.Write(p); err != nil {
			return 0, err
		}
	default:
		if err := f.push(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// degrade ships the codec backlog uncompressed after a compression failure.
// Readers of lzop output tolerate trailing raw bytes better than a missing
// record, and the alternative is dropping data on the floor.
func (f *File) degrade(cause error) error {
	raw := f.lzo.Fallback()
	f.log.Warn("compression failed, writing raw bytes", "error", cause, "bytes", len(raw))
	return f.push(raw)
}

// Flush force-frames the backlog and pushes it, then syncs the store handle.
func (f *File) Flush() error {
	if !f.opened || f.closed {
		return ErrNotOpen
	}

	if f.lzo != nil {
		res, err := f.lzo.Flush()
		if err != nil {
			if !errors.Is(err, lzop.ErrCompression) {
				return err
			}
			if err := f.degrade(err); err != nil {
				return err
			}
		} else if err := f.push(res.Framed); err != nil {
			return err
		}
	}
	return f.handle.Sync()
}

// Close flushes the final block, terminates the stream and closes the store
// handle. Closing a never-opened or already-closed File is a no-op.
func (f *File) Close() error {
	if !f.opened || f.closed {
		return nil
	}
	f.closed = true

	var codecErr error
	switch {
	case f.lzo != nil:
		res, err := f.lzo.Close()
		if errors.Is(err, lzop.ErrCompression) {
			// Ship the backlog raw, then close again for the terminator.
			if err := f.degrade(err); err != nil {
				codecErr = err
				break
			}
			res, err = f.lzo.Close()
		}
		if err != nil {
			codecErr = err
			break
		}
		codecErr = f.push(res.Framed)
	case f.stream != nil:
		codecErr = f.stream.Close()
	}

	closeErr := f.handle.Close()
	if codecErr != nil {
		return codecErr
	}
	return closeErr
}

// push writes wire-ready bytes to the store handle, in order, checking for
// silent short writes.
func (f *File) push(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	n, err := f.handle.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrShortWrite, n, len(data))
	}
	return nil
}

// Name returns the store target name.
func (f *File) Name() string { return f.name }

// Size reports the stored size of the target.
func (f *File) Size(ctx context.Context) (int64, error) {
	return f.store.Size(ctx, f.name)
}

// Exists reports whether the target exists in the store.
func (f *File) Exists(ctx context.Context) (bool, error) {
	return f.store.Exists(ctx, f.name)
}

// Delete removes the target from the store.
func (f *File) Delete(ctx context.Context) error {
	return f.store.Delete(ctx, f.name)
}

// CreateSymlink emulates a symlink on stores without link support: it writes
// the link target's name as the content of newname. Readers resolve the
// indirection themselves.
func CreateSymlink(ctx context.Context, store filestore.Store, oldname, newname string) error {
	w, _, err := store.OpenWrite(ctx, newname)
	if err != nil {
		return fmt.Errorf("scribe: create symlink %q: %w", newname, err)
	}
	if _, err := w.Write([]byte(oldname)); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
