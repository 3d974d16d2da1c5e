package avc

// PendingAU accumulates NAL units for one H.264 access unit until the RTP
// marker bit closes it. It is the "pending-AU buffer" of the subsession I/O
// state (§3): bytes, size, first-NAL presentation time and a non-empty flag,
// all owned by the subsession, never shared.
type PendingAU struct {
	buf      []byte
	firstPTS int64
	hasFirst bool
	nonEmpty bool
	hasIDR   bool

	lastSPS []byte
	lastPPS []byte
}

// Push appends one frame's raw NALs to the pending AU, each as a u32be
// length-prefixed AVCC record, recording pts as the AU's presentation time if this is
// the first NAL seen since the last flush.
func (p *PendingAU) Push(nals [][]byte, pts int64) {
	for _, nal := range nals {
		if len(nal) == 0 {
			continue
		}
		if !p.hasFirst {
			p.firstPTS = pts
			p.hasFirst = true
		}
		switch NALType(nal) {
		case NALTypeIDR:
			p.hasIDR = true
		case NALTypeSPS:
			p.lastSPS = nal
		case NALTypePPS:
			p.lastPPS = nal
		}
		p.buf = append(p.buf, EncodeAVCCLength(nal)...)
		p.nonEmpty = true
	}
}

// ParameterSetUpdate returns the SPS and PPS NALs seen since the last flush,
// or nil, nil if neither reappeared in-band. The RTP stream is not required
// to repeat sprop-parameter-sets, but some encoders resend them ahead of
// every IDR; when they do, the caller can refresh its stored codec params.
func (p *PendingAU) ParameterSetUpdate() (sps, pps []byte) {
	return p.lastSPS, p.lastPPS
}

// HasIDR reports whether any NAL pushed since the last flush was an IDR
// slice (type 5), the signal used for the SimpleBlock keyframe flag.
func (p *PendingAU) HasIDR() bool {
	return p.hasIDR
}

// PushFrame splits buf as Annex-B if it contains start codes, otherwise
// treats it as a single raw NAL, and pushes the resulting NALs.
func (p *PendingAU) PushFrame(buf []byte, pts int64) {
	var nals [][]byte
	if IsAnnexB(buf) {
		nals = SplitAnnexB(buf)
	} else if len(buf) > 0 {
		nals = [][]byte{buf}
	}
	p.Push(nals, pts)
}

// NonEmpty reports whether any NAL has been accumulated since the last flush.
func (p *PendingAU) NonEmpty() bool {
	return p.nonEmpty
}

// Flush returns the accumulated AVCC payload, its presentation time and
// whether it contains an IDR slice, then resets the buffer for the next
// access unit. Calling Flush on an empty pending AU returns (nil, 0, false, false).
func (p *PendingAU) Flush() (payload []byte, pts int64, keyframe bool, ok bool) {
	if !p.nonEmpty {
		return nil, 0, false, false
	}
	payload = p.buf
	pts = p.firstPTS
	keyframe = p.hasIDR
	p.buf = nil
	p.hasFirst = false
	p.nonEmpty = false
	p.hasIDR = false
	p.lastSPS = nil
	p.lastPPS = nil
	return payload, pts, keyframe, true
}
