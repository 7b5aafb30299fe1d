package lzop

import (
	"fmt"
	"path"
	"strings"
)

// Suffix is the conventional filename suffix for lzop streams. It is
// stripped from the target name before the name is embedded in the header.
const Suffix = ".lzo"

// encodeHeader produces the complete stream header for the given target
// name and compression level: magic, versions, method, level, flags, the
// zeroed mode/mtime/gmtdiff fields, the base filename and the running
// Adler-32 over everything after the magic. All integers are big-endian.
//
// No real filesystem metadata exists at this layer, so the POSIX-style
// fields are written as zero; the flag word declares only the two per-block
// Adler-32 checksums.
func encodeHeader(name string, level int) ([]byte, error) {
	base := strings.TrimSuffix(path.Base(name), Suffix)
	if len(base) > 255 {
		return nil, fmt.Errorf("lzop: base filename %q exceeds 255 bytes", base)
	}

	d := newHeaderDigest()
	d.writeUint16(formatVersion)
	d.writeUint16(libVersion)
	d.writeUint16(versionNeeded)
	d.writeByte(methodLZO1X)
	d.writeByte(byte(level))
	d.writeUint32(headerFlags)
	d.writeUint32(0) // mode
	d.writeUint32(0) // mtime
	d.writeUint32(0) // gmtdiff
	d.writeByte(byte(len(base)))
	d.writeBytes([]byte(base))

	hdr := make([]byte, 0, len(Magic)+len(d.buf)+4)
	hdr = append(hdr, Magic[:]...)
	hdr = append(hdr, d.buf...)
	sum := d.sum.Sum32()
	hdr = append(hdr, byte(sum>>24), byte(sum>>16), byte(sum>>8), byte(sum))
	return hdr, nil
}
