package rtsp2mkv

import (
	"time"

	"github.com/bluenviron/rtsp2mkv/pkg/avc"
	"github.com/bluenviron/rtsp2mkv/pkg/codecs"
)

// ioState is the per-subsession I/O state of spec.md §3: an input buffer,
// the assigned track number, the wrapped source, the previous presentation
// time, and — for H.264 only — the pending-AU buffer. It is owned
// exclusively by the Sink; a Subsession never sees it, per §9's design note
// to key a side table by subsession identity instead of attaching an opaque
// pointer to the subsession record itself.
type ioState struct {
	sub         Subsession
	source      ReadSource
	trackNumber uint64
	isH264      bool
	isVideo     bool

	buf []byte

	prevPTS  time.Time
	hasPrev  bool
	active   bool

	pendingAU avc.PendingAU

	// h264Codec and opusCodec hold the mutex-guarded codec parameters for
	// this subsession, nil unless the subsession matches that codec. An
	// in-band parameter-set update (new SPS/PPS NALs mid-stream) refreshes
	// h264Codec without touching the already-written CodecPrivate.
	h264Codec *codecs.H264
	opusCodec *codecs.Opus
}

func newIOState(sub Subsession, trackNumber uint64, isVideo, isH264 bool) *ioState {
	floor := DefaultAudioBufferFloor
	if isVideo {
		floor = DefaultVideoBufferFloor
	}
	return &ioState{
		sub:         sub,
		source:      sub.ReadSource(),
		trackNumber: trackNumber,
		isVideo:     isVideo,
		isH264:      isH264,
		buf:         make([]byte, floor),
		active:      true,
	}
}

// growBuffer implements §4.D's truncation-driven growth policy: the new
// capacity is round_up_64KiB(needed + 128KiB), falling back to doubling if
// that computation would underflow. The buffer pointer is swapped only on
// successful allocation; on failure the existing buffer is retained and the
// caller is expected to log a warning (allocation never actually fails in
// Go, but the shape mirrors the original's allocate-or-keep contract so a
// future bounded-memory build can hook in here).
func (s *ioState) growBuffer(truncatedBytes int, log LogFunc) {
	needed := len(s.buf) + truncatedBytes
	newCap := roundUp64KiB(needed + growthHeadroom)
	if newCap <= len(s.buf) {
		newCap = len(s.buf) * 2
	}

	grown := make([]byte, newCap)
	copy(grown, s.buf)
	s.buf = grown
	log(LogLevelWarn, "rtsp2mkv: subsession truncated %d bytes, growing buffer to %d bytes", truncatedBytes, newCap)
}

func roundUp64KiB(n int) int {
	if n <= 0 {
		return growthQuantum
	}
	rem := n % growthQuantum
	if rem == 0 {
		return n
	}
	return n + (growthQuantum - rem)
}
