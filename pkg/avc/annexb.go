// Package avc implements the H.264 byte-stream handling this muxer needs:
// splitting Annex-B start-code-delimited NALs, building AVCC length-prefixed
// records, and synthesizing an AVCDecoderConfigurationRecord from SDP
// sprop-parameter-sets. It does not decode H.264; it only reshapes NAL
// boundaries, grounded on RFC 6184 §5.3 / ISO 14496-15 §5.2.4.1.
package avc

import "encoding/binary"

// NAL types relevant to access-unit assembly and keyframe detection.
const (
	NALTypeSPS = 7
	NALTypePPS = 8
	NALTypeIDR = 5
)

// NALType returns the low-5-bit NAL unit type of a NAL's first byte.
func NALType(nal []byte) int {
	if len(nal) == 0 {
		return -1
	}
	return int(nal[0] & 0x1F)
}

// SplitAnnexB splits an Annex-B byte stream into its constituent NAL units,
// skipping leading zero bytes before each start code. It tolerates both the
// 3-byte (00 00 01) and 4-byte (00 00 00 01) start code forms, matching
// real-world encoders that mix the two within the same stream.
func SplitAnnexB(buf []byte) [][]byte {
	starts := findStartCodes(buf)
	if len(starts) == 0 {
		return nil
	}

	nals := make([][]byte, 0, len(starts))
	for i, start := range starts {
		end := len(buf)
		if i+1 < len(starts) {
			end = starts[i+1].codeStart
		}
		nal := buf[start.nalStart:end]
		// strip a trailing zero-byte that sometimes precedes the next start code
		for len(nal) > 0 && nal[len(nal)-1] == 0x00 {
			nal = nal[:len(nal)-1]
		}
		if len(nal) > 0 {
			nals = append(nals, nal)
		}
	}
	return nals
}

type startCode struct {
	codeStart int
	nalStart  int
}

// findStartCodes locates every 00 00 01 / 00 00 00 01 marker in buf.
func findStartCodes(buf []byte) []startCode {
	var out []startCode
	for i := 0; i+2 < len(buf); i++ {
		if buf[i] == 0x00 && buf[i+1] == 0x00 && buf[i+2] == 0x01 {
			out = append(out, startCode{codeStart: i, nalStart: i + 3})
			i += 2
		}
	}
	return out
}

// IsAnnexB reports whether buf contains at least one Annex-B start code
// anywhere in it; used by the aggregator to decide
// between the Annex-B and raw-NAL input shapes tolerated by §4.C.
func IsAnnexB(buf []byte) bool {
	return len(findStartCodes(buf)) > 0
}

// EncodeAVCCLength prepends a u32be length prefix to nal, the per-NAL
// storage form used inside a SimpleBlock payload (AVCC in-band, §4.C).
func EncodeAVCCLength(nal []byte) []byte {
	out := make([]byte, 4+len(nal))
	binary.BigEndian.PutUint32(out, uint32(len(nal)))
	copy(out[4:], nal)
	return out
}

// ContainsIDR reports whether any NAL in the access unit is an IDR slice
// (type 5), the signal used for the SimpleBlock keyframe flag (§8 property 5).
func ContainsIDR(nals [][]byte) bool {
	for _, n := range nals {
		if NALType(n) == NALTypeIDR {
			return true
		}
	}
	return false
}
