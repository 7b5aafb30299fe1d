package lzop

import (
	"hash"
	"hash/adler32"
)

// Block and header checksums are Adler-32 seeded with 1, the lzop container
// convention. hash/adler32 uses the same seed, so block checksums are a
// direct one-shot computation; each block's checksums start fresh and are
// never chained across blocks.
func blockChecksum(data []byte) uint32 {
	return adler32.Checksum(data)
}

// headerDigest accumulates the running Adler-32 over the header fields that
// follow the magic. The final sum is written as the last header field.
type headerDigest struct {
	buf []byte
	sum hash.Hash32
}

func newHeaderDigest() *headerDigest {
	return &headerDigest{sum: adler32.New()}
}

func (d *headerDigest) writeByte(b byte) {
	d.buf = append(d.buf, b)
	d.sum.Write([]byte{b})
}

func (d *headerDigest) writeUint16(v uint16) {
	b := []byte{byte(v >> 8), byte(v)}
	d.buf = append(d.buf, b...)
	d.sum.Write(b)
}

func (d *headerDigest) writeUint32(v uint32) {
	b := []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	d.buf = append(d.buf, b...)
	d.sum.Write(b)
}

func (d *headerDigest) writeBytes(p []byte) {
	d.buf = append(d.buf, p...)
	d.sum.Write(p)
}
