package rtpopus

// frameDurationSamples48k maps the 5-bit Opus TOC configuration number
// (RFC 6716 §3.1 Table 2) to its frame duration in samples at the fixed
// 48kHz RTP clock rate mandated by RFC 7587. Values are taken directly from
// the family groupings (NB/MB/WB/SWB/FB, SILK/Hybrid/CELT) rather than
// derived at runtime, so a malformed config number can never produce a
// nonsensical duration.
var frameDurationSamples48k = [32]int{
	// configs 0-3: SILK NB, 10/20/40/60 ms
	480, 960, 1920, 2880,
	// configs 4-7: SILK MB, 10/20/40/60 ms
	480, 960, 1920, 2880,
	// configs 8-11: SILK WB, 10/20/40/60 ms
	480, 960, 1920, 2880,
	// configs 12-13: Hybrid SWB, 10/20 ms
	480, 960,
	// configs 14-15: Hybrid FB, 10/20 ms
	480, 960,
	// configs 16-19: CELT NB, 2.5/5/10/20 ms
	120, 240, 480, 960,
	// configs 20-23: CELT WB, 2.5/5/10/20 ms
	120, 240, 480, 960,
	// configs 24-27: CELT SWB, 2.5/5/10/20 ms
	120, 240, 480, 960,
	// configs 28-31: CELT FB, 2.5/5/10/20 ms
	120, 240, 480, 960,
}

// FrameDurationSamples returns the frame duration, in samples at 48kHz, for
// the given Opus TOC configuration number (0-31). It returns 0 for any
// value outside that range.
func FrameDurationSamples(config int) int {
	if config < 0 || config >= len(frameDurationSamples48k) {
		return 0
	}
	return frameDurationSamples48k[config]
}

// ConvertTimestamp rescales an RTP timestamp from a foreign clock rate to
// the 48kHz rate Opus always reports at, per §4.F's "timestamp rate is
// always 48 kHz regardless of actual sampling" rule.
func ConvertTimestamp(t uint32, sourceRate uint32) uint32 {
	if sourceRate == 0 {
		return t
	}
	return uint32(uint64(t) * 48000 / uint64(sourceRate))
}
