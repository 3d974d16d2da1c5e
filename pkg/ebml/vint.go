// Package ebml implements the Extensible Binary Meta Language primitives
// (RFC 8794) needed to emit a streamable Matroska bitstream: variable-length
// integers, element IDs and the fixed-width scalar encodings used for
// element payloads.
package ebml

import (
	"encoding/binary"
	"fmt"
	"math"
)

// vintMaxPayload holds, for each VINT width (index = width-1), the maximum
// unsigned value that fits in the payload bits once the all-ones value is
// reserved as the "unknown size" sentinel.
var vintMaxPayload = [8]uint64{
	1<<7 - 2,
	1<<14 - 2,
	1<<21 - 2,
	1<<28 - 2,
	1<<35 - 2,
	1<<42 - 2,
	1<<49 - 2,
	1<<56 - 2,
}

// EncodeVint returns the smallest VINT (1 to 8 bytes) whose payload can hold
// n. Every width from 1 to 8 bytes is considered, and the tightest one whose
// payload range (all-ones sentinel excluded) contains n is chosen.
func EncodeVint(n uint64) ([]byte, error) {
	if n > vintMaxPayload[7] {
		return nil, fmt.Errorf("ebml: value %d does not fit in an 8-byte vint", n)
	}

	width := 8
	for k := 0; k < 8; k++ {
		if n <= vintMaxPayload[k] {
			width = k + 1
			break
		}
	}

	return encodeVintWidth(n, width), nil
}

// encodeVintWidth encodes n as a VINT of exactly width bytes. Callers must
// ensure n fits; it is used both by EncodeVint (tightest width) and by
// EncodeUnknownSize / element-size writers that need a specific width.
func encodeVintWidth(n uint64, width int) []byte {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	// set the marker bit: a single 1 in position (8-width) of the first byte
	buf[0] |= 1 << (8 - width)
	return buf
}

// EncodeUnknownSize emits an n-byte VINT whose payload bits are all 1s, the
// EBML convention for "size unknown", used for the Segment and Cluster
// elements so the muxer never needs to seek back and fill in a real size.
func EncodeUnknownSize(width int) ([]byte, error) {
	if width < 1 || width > 8 {
		return nil, fmt.Errorf("ebml: invalid unknown-size width %d", width)
	}
	buf := make([]byte, width)
	buf[0] = byte(1<<(9-width)) - 1
	for i := 1; i < width; i++ {
		buf[i] = 0xFF
	}
	return buf, nil
}

// DecodeVint reads a VINT from the start of buf and returns its decoded
// value, total encoded length and whether it was the unknown-size sentinel.
func DecodeVint(buf []byte) (value uint64, length int, unknown bool, err error) {
	if len(buf) == 0 {
		return 0, 0, false, fmt.Errorf("ebml: empty buffer")
	}

	first := buf[0]
	width := 0
	for k := 0; k < 8; k++ {
		if first&(1<<(7-k)) != 0 {
			width = k + 1
			break
		}
	}
	if width == 0 {
		return 0, 0, false, fmt.Errorf("ebml: invalid vint marker byte 0x%02x", first)
	}
	if len(buf) < width {
		return 0, 0, false, fmt.Errorf("ebml: truncated vint, need %d bytes, have %d", width, len(buf))
	}

	payloadMask := byte(0xFF >> width)
	value = uint64(first & payloadMask)
	allOnes := value == uint64(payloadMask)

	for i := 1; i < width; i++ {
		value = value<<8 | uint64(buf[i])
		if buf[i] != 0xFF {
			allOnes = false
		}
	}

	return value, width, allOnes, nil
}

// EncodeID writes id in its minimal big-endian byte form. The width marker
// is embedded in the ID constant itself (per RFC 8794 Table 2), so encoding
// is simply picking the number of non-zero leading bytes implied by the
// constant's magnitude.
func EncodeID(id uint32) []byte {
	switch {
	case id <= 0xFF:
		return []byte{byte(id)}
	case id <= 0xFFFF:
		return []byte{byte(id >> 8), byte(id)}
	case id <= 0xFFFFFF:
		return []byte{byte(id >> 16), byte(id >> 8), byte(id)}
	default:
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, id)
		return buf
	}
}

// U8 encodes v as a single big-endian byte.
func U8(v uint8) []byte {
	return []byte{v}
}

// U16BE encodes v as two big-endian bytes.
func U16BE(v uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return buf
}

// U32BE encodes v as four big-endian bytes.
func U32BE(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

// U64BE encodes v as eight big-endian bytes.
func U64BE(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

// Float32BE encodes v as an IEEE-754 big-endian float32, used for
// SamplingFrequency.
func Float32BE(v float32) []byte {
	return U32BE(math.Float32bits(v))
}

// UintMinBE encodes v as the smallest big-endian unsigned integer (1 to 8
// bytes) that can hold it, used for Cluster Timecode values that are
// computed, not fixed-width by spec.
func UintMinBE(v uint64) []byte {
	width := 1
	for shifted := v >> 8; shifted != 0; shifted >>= 8 {
		width++
	}
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return buf
}
