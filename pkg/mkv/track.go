package mkv

import "github.com/bluenviron/rtsp2mkv/pkg/ebml"

// TrackKind distinguishes video and audio TrackEntry layouts (§4.B).
type TrackKind int

// Track kinds.
const (
	TrackVideo TrackKind = ebml.TrackTypeVideo
	TrackAudio TrackKind = ebml.TrackTypeAudio
)

// CodecIDFor maps an SDP codec name to its Matroska CodecID, applying the
// documented fallbacks for unrecognized video/audio codecs (§4.B table).
func CodecIDFor(kind TrackKind, sdpCodec string) string {
	switch sdpCodec {
	case "H264":
		return "V_MPEG4/ISO/AVC"
	case "H265":
		return "V_MPEGH/ISO/HEVC"
	case "OPUS":
		return "A_OPUS"
	case "VORBIS":
		return "A_VORBIS"
	case "MPEG4-GENERIC":
		return "A_AAC"
	}
	if kind == TrackVideo {
		return "V_UNCOMPRESSED"
	}
	return "A_PCM/INT/LIT"
}

// TrackParams describes one emitted TrackEntry.
type TrackParams struct {
	Number  uint64
	Kind    TrackKind
	CodecID string

	// CodecPrivate is the AVCC configuration record for H.264, or nil.
	CodecPrivate []byte

	// Video fields.
	Width, Height uint16
	// FPSHint, when > 0, produces DefaultDuration = floor(1e9/FPSHint) ns.
	FPSHint float64

	// Audio fields.
	SamplingFrequency float32
	Channels          uint8
}

// buildTrackEntry assembles one TrackEntry's payload bytes.
func buildTrackEntry(p TrackParams) []byte {
	var e elementBuf
	e.put(ebml.IDTrackNumber, ebml.U8(uint8(p.Number)))
	e.put(ebml.IDTrackType, ebml.U8(uint8(p.Kind)))
	e.put(ebml.IDCodecID, []byte(p.CodecID))

	if len(p.CodecPrivate) > 0 {
		e.put(ebml.IDCodecPrivate, p.CodecPrivate)
	}

	switch p.Kind {
	case TrackVideo:
		if p.FPSHint > 0 {
			dur := uint32(1e9 / p.FPSHint)
			e.put(ebml.IDDefaultDuration, ebml.U32BE(dur))
		}
		var sub elementBuf
		sub.put(ebml.IDPixelWidth, ebml.U16BE(p.Width))
		sub.put(ebml.IDPixelHeight, ebml.U16BE(p.Height))
		e.put(ebml.IDVideo, sub.bytes())

	case TrackAudio:
		var sub elementBuf
		sub.put(ebml.IDSamplingFreq, ebml.Float32BE(p.SamplingFrequency))
		sub.put(ebml.IDChannels, ebml.U8(p.Channels))
		e.put(ebml.IDAudio, sub.bytes())
	}

	return e.bytes()
}
