package scribe

import (
	"log/slog"

	"github.com/ewhauser/scribe/codec"
	"github.com/ewhauser/scribe/lzop"
)

type options struct {
	level     int
	blockSize int
	logger    *Logger
	stream    codec.Stream
	suffix    string
}

// Option configures a File.
type Option func(*options)

// WithLevel sets the compression level, 0..9. Level 0 disables compression
// for the session; levels 1..8 select the fast path and 9 the maximal path
// on lzop targets.
func WithLevel(level int) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithBlockSize sets the lzop block size in bytes. Writes are framed into
// blocks of this size; the default is 256 KiB.
func WithBlockSize(size int) Option {
	return func(o *options) {
		o.blockSize = size
	}
}

// WithLogger configures structured logging for session events.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithCodec forces a stream codec, bypassing suffix-based selection.
// The lzop path cannot be forced this way; it is bound to the ".lzo"
// suffix and its framing contract.
func WithCodec(c codec.Stream) Option {
	return func(o *options) {
		o.stream = c
	}
}

// WithSuffix overrides the suffix used for codec selection, for targets
// whose names do not carry one (e.g. date-partitioned paths with opaque
// basenames).
func WithSuffix(suffix string) Option {
	return func(o *options) {
		o.suffix = suffix
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		level:     1,
		blockSize: lzop.DefaultBlockSize,
		logger:    NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
