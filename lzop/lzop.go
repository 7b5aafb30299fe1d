// Package lzop implements the write side of the lzop streaming container.
//
// The package produces byte-for-byte lzop-compatible output: a fixed file
// header followed by independently compressed blocks, each framed with its
// raw and compressed lengths and Adler-32 checksums, terminated by a
// zero-length frame. Blocks are compressed with LZO1X; a block that does not
// shrink is stored raw, which a reader detects by the repeated length field.
//
// Reading lzop streams is intentionally out of scope; stock lzop (or any
// compliant decoder) can consume the output.
package lzop

// Magic identifies an lzop stream. It precedes the header fields and is not
// covered by the header checksum.
var Magic = [9]byte{0x89, 0x4c, 0x5a, 0x4f, 0x00, 0x0d, 0x0a, 0x1a, 0x0a}

const (
	// formatVersion is the lzop container version declared in the header.
	formatVersion = 0x1010

	// libVersion is the version of the LZO algorithm implementation the
	// block compressor derives from.
	libVersion = 0x2060

	// versionNeeded is the minimum lzop version able to extract the
	// stream. 0x0940 predates CRC-32 and filter support, neither of which
	// is used here.
	versionNeeded = 0x0940

	// methodLZO1X is the method id for the LZO1X family. Both variants
	// written by this package decode with the same method.
	methodLZO1X = 1

	// Flag bits declaring which checksums are present per block.
	flagAdler32Data       = 0x00000001
	flagAdler32Compressed = 0x00000002

	headerFlags = flagAdler32Data | flagAdler32Compressed
)

// DefaultBlockSize is the block threshold used when none is configured,
// matching the lzop default of 256 KiB.
const DefaultBlockSize = 256 * 1024

// Variant selects the LZO1X compression variant for a session.
type Variant int

const (
	// Fast is LZO1X-1: cheap compression, modest ratio.
	Fast Variant = iota
	// Maximal is LZO1X-999: best ratio, much slower.
	Maximal
)

func (v Variant) String() string {
	if v == Maximal {
		return "lzo1x-999"
	}
	return "lzo1x-1"
}

// variantForLevel maps a configured compression level to a variant. Only
// level 9 selects LZO1X-999; every other nonzero level runs LZO1X-1. The
// level byte written to the header is kept separate from this selection.
func variantForLevel(level int) Variant {
	if level == 9 {
		return Maximal
	}
	return Fast
}

// maxCompressedSize is the worst-case LZO1X output size for n input bytes.
// Compressed output beyond this bound indicates a compressor malfunction.
func maxCompressedSize(n int) int {
	return n + n/16 + 64 + 3
}
