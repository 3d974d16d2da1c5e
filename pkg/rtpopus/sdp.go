package rtpopus

import (
	"strconv"

	"github.com/pion/sdp/v3"
)

// RTPMapAttribute builds the a=rtpmap line describing this Opus payload
// type, using pion/sdp's Attribute type rather than hand-rolled string
// concatenation so it composes with a full session description built by a
// caller assembling an SDP answer around this sink.
func RTPMapAttribute(payloadType uint8) sdp.Attribute {
	return sdp.Attribute{
		Key:   "rtpmap",
		Value: strconv.Itoa(int(payloadType)) + " opus/48000/2",
	}
}

// FmtpAttribute wraps FmtpLine's content as an sdp.Attribute, stripping the
// "a=" prefix and trailing CRLF that FmtpLine keeps for parity with the
// literal byte sequence in §8 scenario S5.
func (p *Packetizer) FmtpAttribute() sdp.Attribute {
	line := p.FmtpLine()
	// line is "a=fmtp:<pt> <params>\r\n"; strip "a=fmtp:" and the CRLF.
	const prefix = "a=fmtp:"
	trimmed := line
	if len(trimmed) > len(prefix) && trimmed[:len(prefix)] == prefix {
		trimmed = trimmed[len(prefix):]
	}
	for len(trimmed) > 0 && (trimmed[len(trimmed)-1] == '\n' || trimmed[len(trimmed)-1] == '\r') {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return sdp.Attribute{Key: "fmtp", Value: trimmed}
}
