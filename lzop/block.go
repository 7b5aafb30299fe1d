package lzop

import (
	"errors"
	"fmt"

	lzo "github.com/rasky/go-lzo"
)

// ErrCompression reports an LZO failure or an output-size invariant
// violation while compressing a block. The caller is expected to recover by
// writing its pending bytes uncompressed; the codec itself stays usable.
var ErrCompression = errors.New("lzop: block compression failed")

// block is the ephemeral result of compressing one slice of the stream. It
// is handed straight to the frame encoder and then discarded.
type block struct {
	raw        []byte
	comp       []byte // nil when the block is stored raw
	rawSum     uint32 // only set for the compressed form
	compSum    uint32
	compressed bool
}

// compressBlock compresses data with the selected variant and decides which
// form to store. Compression wins only when strictly smaller than the raw
// bytes; checksums are computed for the compressed form alone, since the raw
// form carries none on the wire.
func compressBlock(data []byte, v Variant) (block, error) {
	var comp []byte
	if v == Maximal {
		comp = lzo.Compress1X999(data)
	} else {
		comp = lzo.Compress1X(data)
	}

	if len(comp) == 0 || len(comp) > maxCompressedSize(len(data)) {
		return block{}, fmt.Errorf("%w: %d bytes compressed to %d (bound %d)",
			ErrCompression, len(data), len(comp), maxCompressedSize(len(data)))
	}

	if len(comp) >= len(data) {
		return block{raw: data}, nil
	}

	return block{
		raw:        data,
		comp:       comp,
		rawSum:     blockChecksum(data),
		compSum:    blockChecksum(comp),
		compressed: true,
	}, nil
}
