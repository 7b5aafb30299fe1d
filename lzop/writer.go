package lzop

import (
	"errors"
	"fmt"
)

// Options configures a Writer.
type Options struct {
	// Level is the compression level, 1-9. Level 9 selects LZO1X-999;
	// levels 1-8 select LZO1X-1. Level 0 (codec disabled) is handled by
	// the caller and rejected here.
	Level int

	// BlockSize is the block threshold in bytes. Incoming chunks are
	// buffered until a full block can be cut.
	BlockSize int
}

// DefaultOptions are the defaults applied by NewWriter.
var DefaultOptions = Options{
	Level:     1,
	BlockSize: DefaultBlockSize,
}

var (
	// ErrClosed is returned for operations on a closed Writer.
	ErrClosed = errors.New("lzop: writer is closed")

	// ErrHeaderNotWritten is returned when data is appended before the
	// stream header has been emitted.
	ErrHeaderNotWritten = errors.New("lzop: stream header not written")

	// ErrHeaderWritten is returned when Header is called twice.
	ErrHeaderWritten = errors.New("lzop: stream header already written")
)

type sessionState int

const (
	stateUnopened sessionState = iota
	stateWriting
	stateClosed
)

// Result is the outcome of feeding the codec. Framed holds wire-ready bytes
// (possibly none, when input was only buffered); Consumed is the number of
// logical stream bytes those frames cover.
type Result struct {
	Framed   []byte
	Consumed int
}

// Writer is a single-session lzop encoder. It buffers appended chunks until
// a full block can be cut, compresses blocks independently and returns
// framed bytes for the caller to push to storage in order.
//
// A Writer is owned by one logical producer and is not safe for concurrent
// use; Append and Close must be externally serialized. Independent Writers
// share no state.
type Writer struct {
	name      string
	level     int
	variant   Variant
	blockSize int
	backlog   []byte
	state     sessionState
}

// NewWriter creates a Writer for the named target. The name, with any
// ".lzo" suffix stripped, is embedded in the stream header.
func NewWriter(name string, optFns ...func(o *Options)) (*Writer, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Level < 1 || opts.Level > 9 {
		return nil, fmt.Errorf("lzop: compression level must be 1-9, got %d", opts.Level)
	}
	if opts.BlockSize <= 0 {
		return nil, fmt.Errorf("lzop: block size must be positive, got %d", opts.BlockSize)
	}

	return &Writer{
		name:      name,
		level:     opts.Level,
		variant:   variantForLevel(opts.Level),
		blockSize: opts.BlockSize,
	}, nil
}

// Variant reports the compression variant selected by the level.
func (w *Writer) Variant() Variant { return w.variant }

// Buffered reports how many bytes are retained in the backlog.
func (w *Writer) Buffered() int { return len(w.backlog) }

// Header emits the stream header. It must be called exactly once, before
// the first Append, and only for a freshly created target; appending to an
// existing file must not write a second header.
func (w *Writer) Header() ([]byte, error) {
	switch w.state {
	case stateClosed:
		return nil, ErrClosed
	case stateWriting:
		return nil, ErrHeaderWritten
	}

	hdr, err := encodeHeader(w.name, w.level)
	if err != nil {
		return nil, err
	}
	w.state = stateWriting
	return hdr, nil
}

// Append feeds a chunk into the session. While the backlog plus chunk stays
// below the block threshold the bytes are retained and no output is
// produced; otherwise every full block is compressed and framed, and the
// remainder is retained for the next call.
//
// On a compression error the pending bytes are kept (nothing is emitted,
// nothing is lost); the caller should drain them with Fallback and write
// them verbatim. The Writer remains usable afterwards.
func (w *Writer) Append(chunk []byte) (Result, error) {
	switch w.state {
	case stateClosed:
		return Result{}, ErrClosed
	case stateUnopened:
		return Result{}, ErrHeaderNotWritten
	}
	return w.flush(chunk, false)
}

// Flush forces out every buffered byte, emitting a final short block for
// any remainder. The stream remains open.
func (w *Writer) Flush() (Result, error) {
	switch w.state {
	case stateClosed:
		return Result{}, ErrClosed
	case stateUnopened:
		return Result{}, ErrHeaderNotWritten
	}
	return w.flush(nil, true)
}

// Close force-flushes the backlog and appends the end-of-stream marker.
// It runs the termination protocol exactly once: closing an already-closed
// or never-opened Writer is a no-op. If the final flush fails with a
// compression error the Writer stays open so the caller can drain the
// backlog with Fallback and retry Close.
func (w *Writer) Close() (Result, error) {
	if w.state != stateWriting {
		return Result{}, nil
	}

	res, err := w.flush(nil, true)
	if err != nil {
		return Result{}, err
	}

	res.Framed = appendTerminator(res.Framed)
	w.state = stateClosed
	return res, nil
}

// Fallback drains the backlog and returns it verbatim. It is the recovery
// path after a compression error: the returned bytes must be written to the
// target uncompressed so no appended byte is lost.
func (w *Writer) Fallback() []byte {
	data := w.backlog
	w.backlog = nil
	return data
}

// flush implements the buffering contract. The retained backlog and the new
// chunk are treated as one input; full blocks are cut at the threshold and a
// forced flush also emits the remainder as a shorter final block. Remainder
// bytes are never dropped, whether or not the input is an exact multiple of
// the block size.
func (w *Writer) flush(chunk []byte, force bool) (Result, error) {
	data := w.backlog
	if len(chunk) > 0 {
		data = append(data, chunk...)
	}
	w.backlog = data

	if len(data) < w.blockSize && !force {
		return Result{}, nil
	}

	full := len(data) / w.blockSize
	end := full * w.blockSize

	var framed []byte
	consumed := 0

	for i := 0; i < full; i++ {
		blk, err := compressBlock(data[i*w.blockSize:(i+1)*w.blockSize], w.variant)
		if err != nil {
			return Result{}, err
		}
		framed = appendFrame(framed, blk)
		consumed += w.blockSize
	}

	if force && end < len(data) {
		blk, err := compressBlock(data[end:], w.variant)
		if err != nil {
			return Result{}, err
		}
		framed = appendFrame(framed, blk)
		consumed += len(data) - end
		end = len(data)
	}

	// Copy the remainder out so the flushed array can be released.
	if end < len(data) {
		w.backlog = append([]byte(nil), data[end:]...)
	} else {
		w.backlog = nil
	}

	return Result{Framed: framed, Consumed: consumed}, nil
}
