// Package rtsp2mkv muxes the video and audio subsessions of a live RTSP
// session into a single streamable Matroska (MKV) file, and provides an
// RFC 7587 Opus-over-RTP depacketizer/packetizer as a source/sink for that
// same pipeline. It does not implement RTSP, SDP, RTP transport or RTCP:
// those are external collaborators, consumed through the narrow
// Session/Subsession/ReadSource contracts below (spec.md §6).
package rtsp2mkv

import "time"

// Session enumerates the subsessions of one recorded RTSP session. It is
// produced by an external SDP parser and is treated as immutable by the
// Sink.
type Session interface {
	Subsessions() []Subsession
}

// Subsession describes one media subsession (one SDP "m=" line) and
// exposes the capability to read frames from it.
type Subsession interface {
	// MediumName is "video" or "audio".
	MediumName() string
	// CodecName is the RTP payload's codec, e.g. "H264", "OPUS", "VORBIS".
	CodecName() string
	// RTPTimestampFrequency is the subsession's RTP clock rate.
	RTPTimestampFrequency() int
	// NumChannels is the SDP-advertised channel count.
	NumChannels() int
	// VideoFPS is the SDP fps hint, or 0 if absent.
	VideoFPS() float64
	// FmtpSpropParameterSets returns the base64, comma-separated
	// sprop-parameter-sets fmtp parameter, or "" if absent.
	FmtpSpropParameterSets() string
	// ReadSource returns the opaque frame source for this subsession.
	ReadSource() ReadSource
}

// FrameReadyFunc is invoked by ReadSource.GetNextFrame when a frame has
// been delivered into buf.
type FrameReadyFunc func(packetSize int, truncated int, presentationTime time.Time)

// SourceClosureFunc is invoked by ReadSource.GetNextFrame when the source
// closes instead of delivering a frame.
type SourceClosureFunc func()

// ReadSource is the pull-style frame source backing one subsession (spec.md
// §6). It is the only suspension point in the muxer's cooperative model:
// GetNextFrame returns immediately and the caller resumes later, from
// onReady or onClose, running on the same logical task.
type ReadSource interface {
	// GetNextFrame requests delivery of the next frame into buf. Exactly
	// one of onReady or onClose is eventually invoked.
	GetNextFrame(buf []byte, onReady FrameReadyFunc, onClose SourceClosureFunc)
	// IsCurrentlyAwaitingData reports whether a GetNextFrame call is
	// already outstanding, so the pull loop does not issue a second one.
	IsCurrentlyAwaitingData() bool
	// CurrentPacketMarkerBit returns the RTP marker bit of the most
	// recently delivered packet. Only meaningful for H.264 sources, where
	// it signals the access-unit boundary (§4.C).
	CurrentPacketMarkerBit() bool
}
