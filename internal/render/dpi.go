package render

import (
	"encoding/binary"
	"hash/crc32"
	"math"
)

// pngHeaderLen covers the 8-byte signature plus the IHDR chunk, which is
// always first and always 25 bytes. The pHYs chunk must appear before the
// first IDAT, so splicing right after IHDR is always valid.
const pngHeaderLen = 8 + 25

// withDPI splices a pHYs chunk into an encoded PNG so viewers report the
// intended print resolution. image/png does not write ancillary chunks
// itself. Data that is too short or a non-positive dpi is returned as-is.
func withDPI(data []byte, dpi int) []byte {
	if dpi <= 0 || len(data) < pngHeaderLen {
		return data
	}

	pixelsPerMetre := uint32(math.Round(float64(dpi) / 0.0254))

	// 4-byte length, 4-byte type, 9-byte payload, 4-byte CRC.
	chunk := make([]byte, 21)
	binary.BigEndian.PutUint32(chunk[0:], 9)
	copy(chunk[4:], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:], pixelsPerMetre)
	binary.BigEndian.PutUint32(chunk[12:], pixelsPerMetre)
	chunk[16] = 1 // unit: metre
	binary.BigEndian.PutUint32(chunk[17:], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:pngHeaderLen]...)
	out = append(out, chunk...)
	out = append(out, data[pngHeaderLen:]...)
	return out
}
