package lzop

import "encoding/binary"

// Frame layout, all fields big-endian uint32:
//
//	compressed: [rawLen][compLen][rawAdler][compAdler][compressed bytes]
//	raw:        [rawLen][rawLen][raw bytes]
//
// The repeated length field is the raw-form discriminator: a reader treats
// compLen == rawLen as a stored block and expects no checksum fields. A
// frame with rawLen == 0 terminates the stream.

func appendUint32(dst []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(dst, v)
}

// appendFrame serializes one block in its chosen form.
func appendFrame(dst []byte, b block) []byte {
	dst = appendUint32(dst, uint32(len(b.raw)))
	if b.compressed {
		dst = appendUint32(dst, uint32(len(b.comp)))
		dst = appendUint32(dst, b.rawSum)
		dst = appendUint32(dst, b.compSum)
		return append(dst, b.comp...)
	}
	dst = appendUint32(dst, uint32(len(b.raw)))
	return append(dst, b.raw...)
}

// appendTerminator writes the zero-length end-of-stream marker.
func appendTerminator(dst []byte) []byte {
	return appendUint32(dst, 0)
}
