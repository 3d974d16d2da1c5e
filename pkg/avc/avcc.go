package avc

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
)

// minSPSLen is the smallest SPS NAL this package accepts: 1 header byte
// plus profile_idc, profile_compatibility and level_idc (§9 open question —
// the original implementation read these without a bounds check; this one
// rejects malformed sprop-parameter-sets instead of reading past the end).
const minSPSLen = 4

// SplitSpropParameterSets decodes a comma-separated, base64-encoded
// sprop-parameter-sets attribute into raw NAL buffers and partitions them
// into SPS/PPS by NAL type, per §4.C.
func SplitSpropParameterSets(sprop string) (sps, pps []byte, err error) {
	if sprop == "" {
		return nil, nil, nil
	}

	for _, part := range strings.Split(sprop, ",") {
		if part == "" {
			continue
		}
		nal, decErr := base64.StdEncoding.DecodeString(part)
		if decErr != nil {
			return nil, nil, fmt.Errorf("avc: invalid sprop-parameter-sets NAL: %w", decErr)
		}
		switch NALType(nal) {
		case NALTypeSPS:
			sps = nal
		case NALTypePPS:
			pps = nal
		}
	}

	return sps, pps, nil
}

// EncodeAVCCConfigRecord builds the AVCDecoderConfigurationRecord (ISO/IEC
// 14496-15 §5.2.4.1) used as CodecPrivate for V_MPEG4/ISO/AVC tracks:
//
//	0x01 | sps[1] | sps[2] | sps[3] | 0xFF | 0xE1 | u16be(len_sps) | sps
//	     | 0x01  | u16be(len_pps) | pps
//
// It returns an error — never panics — when the SPS is too short to carry
// profile_idc/profile_compatibility/level_idc; absence of SPS or PPS simply
// leaves CodecPrivate empty, per §4.C.
func EncodeAVCCConfigRecord(sps, pps []byte) ([]byte, error) {
	if len(sps) == 0 || len(pps) == 0 {
		return nil, nil
	}
	if len(sps) < minSPSLen {
		return nil, fmt.Errorf("avc: SPS too short to derive profile/level (%d bytes)", len(sps))
	}

	buf := make([]byte, 0, 11+len(sps)+len(pps))
	buf = append(buf, 0x01, sps[1], sps[2], sps[3], 0xFF, 0xE1)
	buf = appendU16BE(buf, len(sps))
	buf = append(buf, sps...)
	buf = append(buf, 0x01)
	buf = appendU16BE(buf, len(pps))
	buf = append(buf, pps...)

	return buf, nil
}

func appendU16BE(buf []byte, v int) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], uint16(v))
	return append(buf, tmp[:]...)
}
