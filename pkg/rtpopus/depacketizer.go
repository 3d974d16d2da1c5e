// Package rtpopus implements the Opus-over-RTP framing of RFC 7587: a
// depacketizer that presents RTP payloads as Opus packets (passthrough,
// special-header size 0) and a packetizer enforcing the one-packet-per-RTP
// payload rule the RFC mandates. Neither decodes or encodes Opus audio.
package rtpopus

import "fmt"

// MIMEType is the MIME type advertised by this format, per RFC 7587 §3.
const MIMEType = "audio/opus"

// ErrInvalidConfig is returned when a TOC byte's configuration nibble is
// out of range, or a zero-length payload arrives without DTX enabled.
var ErrInvalidConfig = fmt.Errorf("rtpopus: invalid configuration or empty non-DTX packet")

// Frame is one depacketized Opus packet together with the metadata this
// muxer cares about (§4.F).
type Frame struct {
	// Payload is the Opus packet, verbatim. Nil (not empty) for DTX silence.
	Payload []byte
	// DTX is set when the RTP payload was zero-length, signaling
	// discontinuous-transmission silence rather than an error.
	DTX bool
	// Config is the 5-bit TOC configuration number (0-31).
	Config int
	// Stereo is the TOC's stereo hint bit (byte0 & 0x04).
	Stereo bool
	// FEC records whether the packet is understood to carry in-band FEC
	// for the previous packet; no reconstruction is attempted, matching
	// the passthrough-only scope of this component.
	FEC bool
}

// Depacketizer turns RTP payloads into Opus Frames. It is stateless: RFC
// 7587 payloads never span multiple RTP packets (one packet per payload),
// so there is nothing to buffer across calls.
type Depacketizer struct {
	// NumChannels is the channel count advertised in SDP, recorded
	// separately from the muxer's forced-mono CodecID handling (§4.B
	// special case) so a caller can inspect what was actually negotiated.
	NumChannels int
	// FECEnabled mirrors the sender's a=fmtp:useinbandfec negotiation.
	FECEnabled bool
}

// Decode depacketizes a single RTP payload. A zero-length payload is
// DTX-silence, not an error. The configuration number is 5 bits wide and so
// can never exceed 31; no range check is made on it.
func (d *Depacketizer) Decode(payload []byte) (*Frame, error) {
	if len(payload) == 0 {
		return &Frame{DTX: true}, nil
	}

	config := int(payload[0] & 0x1F)
	stereo := payload[0]&0x04 != 0

	return &Frame{
		Payload: payload,
		Config:  config,
		Stereo:  stereo,
		FEC:     d.FECEnabled,
	}, nil
}
