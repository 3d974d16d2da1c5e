package main

import (
	"sync"
	"time"

	"github.com/bluenviron/rtsp2mkv"
)

// queuedFrame is one depacketized media frame waiting to be handed to the
// sink's pull loop.
type queuedFrame struct {
	payload []byte
	pts     time.Time
	marker  bool
}

// rtpBridgeSource adapts gortsplib's push-style per-media RTP callback
// into rtsp2mkv.ReadSource's pull-style GetNextFrame contract. A media's
// RTP callback runs on a connection-owned goroutine and may call Push
// before or after the sink asks for the next frame; the bridge buffers
// either direction of that race behind mu.
type rtpBridgeSource struct {
	mu sync.Mutex

	queue      []queuedFrame
	closed     bool
	lastMarker bool

	awaitingBuf   []byte
	awaitingReady rtsp2mkv.FrameReadyFunc
	awaitingClose rtsp2mkv.SourceClosureFunc
}

// Push is called from the RTSP client's RTP callback with one
// already-depacketized frame (an Opus packet payload, or one Annex-B NAL
// or AU chunk for H.264).
func (b *rtpBridgeSource) Push(payload []byte, pts time.Time, marker bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.awaitingReady != nil {
		b.deliverLocked(payload, pts, marker)
		return
	}

	b.queue = append(b.queue, queuedFrame{payload: payload, pts: pts, marker: marker})
}

// Close is called once the RTSP session has torn down this media's stream.
func (b *rtpBridgeSource) Close() {
	b.mu.Lock()
	b.closed = true
	var cb rtsp2mkv.SourceClosureFunc
	if b.awaitingClose != nil && len(b.queue) == 0 {
		cb = b.awaitingClose
		b.awaitingReady = nil
		b.awaitingClose = nil
	}
	b.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (b *rtpBridgeSource) GetNextFrame(
	buf []byte,
	onReady rtsp2mkv.FrameReadyFunc,
	onClose rtsp2mkv.SourceClosureFunc,
) {
	b.mu.Lock()

	if len(b.queue) > 0 {
		f := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()
		n := copy(buf, f.payload)
		truncated := 0
		if n < len(f.payload) {
			truncated = len(f.payload) - n
		}
		b.mu.Lock()
		b.lastMarker = f.marker
		b.mu.Unlock()
		onReady(n, truncated, f.pts)
		return
	}

	if b.closed {
		b.mu.Unlock()
		onClose()
		return
	}

	b.awaitingBuf = buf
	b.awaitingReady = onReady
	b.awaitingClose = onClose
	b.mu.Unlock()
}

// deliverLocked fulfills an outstanding GetNextFrame request. mu must
// already be held; it is released before invoking the callback so the
// callback's re-entrant calls (continuePlaying dispatches the next
// GetNextFrame synchronously) do not deadlock against this mutex.
func (b *rtpBridgeSource) deliverLocked(payload []byte, pts time.Time, marker bool) {
	n := copy(b.awaitingBuf, payload)
	truncated := 0
	if n < len(payload) {
		truncated = len(payload) - n
	}
	cb := b.awaitingReady
	b.awaitingReady = nil
	b.awaitingClose = nil
	b.lastMarker = marker
	b.mu.Unlock()
	cb(n, truncated, pts)
	b.mu.Lock()
}

func (b *rtpBridgeSource) IsCurrentlyAwaitingData() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.awaitingReady != nil
}

func (b *rtpBridgeSource) CurrentPacketMarkerBit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastMarker
}
