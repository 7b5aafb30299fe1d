// Package codec centralizes stream-compression selection.
//
// The shipped filename is the contract: each codec owns a filename suffix,
// and a target name carrying that suffix is compressed with that codec.
// Changing a codec's wire format breaks every reader of previously shipped
// files, so treat codec selection as a breaking-change boundary.
package codec

import (
	"io"
	"strings"
)

// Stream compresses a byte stream for shipping.
// Implementations must be safe for concurrent use.
type Stream interface {
	// Suffix is the filename suffix claimed by this codec, dot included.
	Suffix() string

	// NewWriter wraps w so that everything written comes out compressed.
	// level uses the 1..9 convention; implementations clamp as needed.
	// The returned writer must be closed to flush trailing frames; closing
	// it does not close w.
	NewWriter(w io.Writer, level int) (io.WriteCloser, error)
}

// ForSuffix returns the built-in codec claiming the given target name's
// suffix, or false when the name matches none.
func ForSuffix(name string) (Stream, bool) {
	for _, c := range builtin {
		if strings.HasSuffix(name, c.Suffix()) {
			return c, true
		}
	}
	return nil, false
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Stream, bool) {
	switch name {
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	default:
		return nil, false
	}
}

var builtin = []Stream{Zstd{}, LZ4{}}
