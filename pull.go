package rtsp2mkv

import "time"

// StartPlaying begins the pull loop (spec.md §4.E "continue_playing"). It
// stores afterFunc, to be invoked exactly once when every subsession has
// closed, and dispatches the first GetNextFrame request on each active
// subsession. It returns false without storing afterFunc if the sink is
// already completed, and false (with afterFunc stored) if no subsession
// could be dispatched.
func (s *Sink) StartPlaying(afterFunc func()) bool {
	if s.state == sinkCompleted {
		return false
	}
	s.afterFunc = afterFunc
	return s.continuePlaying()
}

// continuePlaying issues a GetNextFrame request on every active subsession
// whose source is not already awaiting data, writing the MKV headers on
// first entry. It returns true if at least one subsession was dispatched.
func (s *Sink) continuePlaying() bool {
	if s.state == sinkCreated {
		if err := s.mw.Open(s.tracks); err != nil {
			s.opts.Log(LogLevelError, "rtsp2mkv: failed to open output: %v", err)
			return false
		}
		s.state = sinkHeadersWritten
	}

	dispatched := false
	for _, io := range s.ioStates {
		if !io.active {
			continue
		}
		if io.source.IsCurrentlyAwaitingData() {
			continue
		}

		io := io
		io.source.GetNextFrame(io.buf,
			func(packetSize, truncated int, pts time.Time) {
				s.onFrameReady(io, packetSize, truncated, pts)
			},
			func() {
				s.onSourceClosure(io)
			},
		)
		dispatched = true
	}

	return dispatched
}

// onFrameReady is the frame-ready callback of §4.E: grow the buffer on
// truncation, delegate to the per-codec use-frame routine, then re-enter
// the pull loop so the subsession's next frame is requested.
func (s *Sink) onFrameReady(io *ioState, packetSize, truncated int, pts time.Time) {
	if truncated > 0 {
		io.growBuffer(truncated, s.opts.Log)
	}

	data := io.buf[:packetSize]

	if !s.haveSetStartTime {
		s.startTime = pts
		s.haveSetStartTime = true
		s.state = sinkStreaming
	}

	relMS := int64(pts.Sub(s.startTime) / time.Millisecond)

	if io.isH264 {
		s.useFrameH264(io, relMS, data)
	} else {
		s.useFrameSimple(io, relMS, data, !io.isVideo)
	}

	io.prevPTS = pts
	io.hasPrev = true

	s.continuePlaying()
}

// useFrameSimple writes one SimpleBlock immediately, opening or rotating
// the current cluster as needed (§4.E "use-frame (non-H.264)").
func (s *Sink) useFrameSimple(io *ioState, relMS int64, payload []byte, keyframe bool) {
	s.ensureCluster(relMS)

	rel := relMS - s.mw.ClusterTimecodeMS()
	if rel < -32768 || rel > 32767 {
		s.mw.RequestNewCluster()
		s.ensureCluster(relMS)
		rel = relMS - s.mw.ClusterTimecodeMS()
	}

	if err := s.mw.WriteSimpleBlock(io.trackNumber, rel, keyframe, payload); err != nil {
		s.opts.Log(LogLevelError, "rtsp2mkv: failed to write SimpleBlock: %v", err)
	}
}

// useFrameH264 aggregates NALs into the pending access unit and flushes it
// as a single SimpleBlock when the RTP marker bit closes the AU (§4.C,
// §8 property 4).
func (s *Sink) useFrameH264(io *ioState, relMS int64, data []byte) {
	io.pendingAU.PushFrame(data, relMS)

	if sps, pps := io.pendingAU.ParameterSetUpdate(); sps != nil || pps != nil {
		curSPS, curPPS := io.h264Codec.SafeParams()
		if sps == nil {
			sps = curSPS
		}
		if pps == nil {
			pps = curPPS
		}
		io.h264Codec.SafeSetParams(sps, pps)
	}

	if !io.source.CurrentPacketMarkerBit() {
		return
	}

	payload, pts, keyframe, ok := io.pendingAU.Flush()
	if !ok {
		return
	}

	s.useFrameSimple(io, pts, payload, keyframe)
}

// ensureCluster opens a new cluster anchored at anchorMS if one is needed,
// per the writer's NeedNewCluster latch.
func (s *Sink) ensureCluster(anchorMS int64) {
	if !s.mw.NeedNewCluster() {
		return
	}
	if err := s.mw.OpenCluster(anchorMS); err != nil {
		s.opts.Log(LogLevelError, "rtsp2mkv: failed to open cluster: %v", err)
	}
}

// onSourceClosure marks the subsession inactive, flushing any pending H.264
// AU first, and finalizes the output once every subsession has closed
// (§4.E "source closure").
func (s *Sink) onSourceClosure(io *ioState) {
	if !io.active {
		return
	}
	io.active = false
	s.activeCount--

	if io.isH264 {
		if payload, pts, keyframe, ok := io.pendingAU.Flush(); ok {
			s.useFrameSimple(io, pts, payload, keyframe)
		}
	}

	if s.activeCount == 0 {
		s.finalize()
	}
}

// finalize writes the closing Cues element exactly once and invokes the
// caller's after-playing callback, matching the
// have-completed-output-file latch of spec.md §5.
func (s *Sink) finalize() {
	if s.afterCalled {
		return
	}
	if err := s.mw.Close(); err != nil {
		s.opts.Log(LogLevelError, "rtsp2mkv: failed to finalize output: %v", err)
	}
	s.state = sinkCompleted
	s.afterCalled = true
	if s.afterFunc != nil {
		s.afterFunc()
	}
}

// Close finalizes the output if it has not already completed, matching
// the destructor behavior of spec.md §5.
func (s *Sink) Close() error {
	s.finalize()
	return nil
}
