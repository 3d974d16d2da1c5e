package rtpopus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pion/rtp"
)

// PacketizerOptions mirrors the construction-time RTP sink parameters of
// §6 ("Opus RTP sink configuration"): payload type, channel mode, FEC/DTX
// flags, and bitrate hints used only to synthesize the SDP fmtp attribute.
// The clock rate is always 48000 for Opus and has no field here.
type PacketizerOptions struct {
	PayloadType       uint8
	SSRC              uint32
	Stereo            bool
	FECEnabled        bool
	DTXEnabled        bool
	MaxPlaybackRate   int // 0 means "don't advertise"
	MaxAverageBitrate int // 0 means "don't advertise"
}

// Packetizer builds RTP packets carrying Opus payloads. RFC 7587 requires
// exactly one Opus packet per RTP payload, so FrameCanAppearAfterPacketStart
// always returns false — this component never fragments or aggregates.
type Packetizer struct {
	opts PacketizerOptions

	seq        uint16
	cachedFmtp string
	haveFmtp   bool
}

// NewPacketizer constructs a Packetizer with the given options.
func NewPacketizer(opts PacketizerOptions) *Packetizer {
	return &Packetizer{opts: opts}
}

// FrameCanAppearAfterPacketStart always returns false for Opus (§4.G, §8
// property 7): a frame never continues a previous RTP payload.
func (p *Packetizer) FrameCanAppearAfterPacketStart() bool {
	return false
}

// SpecialHeaderSize is always 0: RFC 7587 prescribes no Opus-specific RTP
// header extension.
func (p *Packetizer) SpecialHeaderSize() int {
	return 0
}

// Packetize validates and wraps a single Opus packet into one RTP packet.
// It rejects a TOC configuration nibble above 31 and a zero-length packet
// unless DTX is enabled, per §4.G and §7's "invalid Opus frame" taxonomy.
func (p *Packetizer) Packetize(opusPacket []byte, timestamp uint32, marker bool) (*rtp.Packet, error) {
	if len(opusPacket) == 0 {
		if !p.opts.DTXEnabled {
			return nil, ErrInvalidConfig
		}
	} else {
		config := int(opusPacket[0] & 0x1F)
		if config > 31 {
			return nil, ErrInvalidConfig
		}
	}

	pkt := &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    p.opts.PayloadType,
			SequenceNumber: p.seq,
			Timestamp:      timestamp,
			SSRC:           p.opts.SSRC,
			Marker:         marker,
		},
		Payload: opusPacket,
	}
	p.seq++

	return pkt, nil
}

// FmtpLine builds the cached a=fmtp:<pt> SDP attribute line (§4.G table),
// computing it once and reusing it on subsequent calls.
func (p *Packetizer) FmtpLine() string {
	if p.haveFmtp {
		return p.cachedFmtp
	}

	var parts []string
	if p.opts.MaxPlaybackRate != 0 && p.opts.MaxPlaybackRate != 48000 {
		parts = append(parts, "maxplaybackrate="+strconv.Itoa(p.opts.MaxPlaybackRate))
	}
	stereo := "0"
	if p.opts.Stereo {
		stereo = "1"
	}
	parts = append(parts, "stereo="+stereo)
	if p.opts.FECEnabled {
		parts = append(parts, "useinbandfec=1")
	}
	if p.opts.DTXEnabled {
		parts = append(parts, "usedtx=1")
	}
	if p.opts.MaxAverageBitrate > 0 {
		parts = append(parts, "maxaveragebitrate="+strconv.Itoa(p.opts.MaxAverageBitrate))
	}

	p.cachedFmtp = fmt.Sprintf("a=fmtp:%d %s\r\n", p.opts.PayloadType, strings.Join(parts, " "))
	p.haveFmtp = true
	return p.cachedFmtp
}
