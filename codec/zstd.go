package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// Zstd compresses streams in the zstandard frame format.
type Zstd struct{}

// Suffix returns ".zst".
func (Zstd) Suffix() string { return ".zst" }

// NewWriter wraps w in a zstandard encoder at the given level.
func (Zstd) NewWriter(w io.Writer, level int) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
}
