package codec

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4 compresses streams in the lz4 frame format.
type LZ4 struct{}

// lz4Levels maps the 1..9 convention onto lz4 compression levels.
// Level 1 is the fast path; higher levels trade speed for ratio.
var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1,
	lz4.Level2,
	lz4.Level3,
	lz4.Level4,
	lz4.Level5,
	lz4.Level6,
	lz4.Level7,
	lz4.Level8,
	lz4.Level9,
}

// Suffix returns ".lz4".
func (LZ4) Suffix() string { return ".lz4" }

// NewWriter wraps w in an lz4 frame writer at the given level.
func (LZ4) NewWriter(w io.Writer, level int) (io.WriteCloser, error) {
	if level < 0 {
		level = 0
	}
	if level >= len(lz4Levels) {
		level = len(lz4Levels) - 1
	}

	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.CompressionLevelOption(lz4Levels[level])); err != nil {
		return nil, err
	}
	return zw, nil
}
