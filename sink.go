package rtsp2mkv

import (
	"fmt"
	"io"
	"time"

	"github.com/bluenviron/rtsp2mkv/pkg/avc"
	"github.com/bluenviron/rtsp2mkv/pkg/codecs"
	"github.com/bluenviron/rtsp2mkv/pkg/mkv"
)

// sinkState is the coarse state machine of spec.md §4.E:
//
//	CREATED -> HEADERS_WRITTEN -> STREAMING -> COMPLETED
type sinkState int

const (
	sinkCreated sinkState = iota
	sinkHeadersWritten
	sinkStreaming
	sinkCompleted
)

// Sink muxes a Session's subsessions into a Matroska file. It owns the
// output file handle exclusively: subsessions never write to it directly.
type Sink struct {
	out  io.Writer
	opts Options
	mw   *mkv.Writer

	tracks      []mkv.TrackParams
	ioStates    []*ioState
	activeCount int

	haveSetStartTime bool
	startTime        time.Time

	afterFunc   func()
	afterCalled bool
	state       sinkState
}

// New validates session and builds a Sink over out. It mirrors
// MatroskaFileSink::createNew (original_source/liveMedia/MatroskaFileSink.cpp):
// a session with no subsessions is a setup failure, reported as an error
// rather than a populated-but-useless Sink (spec.md §7).
func New(session Session, out io.Writer, opts Options) (*Sink, error) {
	subs := session.Subsessions()
	if len(subs) == 0 {
		return nil, fmt.Errorf("rtsp2mkv: session has no subsessions")
	}
	opts.setDefaults()

	s := &Sink{
		out:  out,
		opts: opts,
		mw:   mkv.NewWriter(out, mkv.DefaultOptions()),
	}

	var tracks []mkv.TrackParams
	nextOther := uint64(3)
	haveVideo, haveAudio := false, false

	for _, sub := range subs {
		medium := sub.MediumName()
		isVideo := medium == "video"

		var trackNumber uint64
		switch {
		case isVideo && !haveVideo:
			trackNumber = 1
			haveVideo = true
		case !isVideo && !haveAudio:
			trackNumber = 2
			haveAudio = true
		default:
			trackNumber = nextOther
			nextOther++
		}

		codecName := sub.CodecName()
		isH264 := isVideo && codecName == "H264"

		kind := mkv.TrackAudio
		if isVideo {
			kind = mkv.TrackVideo
		}

		tp := mkv.TrackParams{
			Number:  trackNumber,
			Kind:    kind,
			CodecID: mkv.CodecIDFor(kind, codecName),
		}

		var h264Codec *codecs.H264
		var opusCodec *codecs.Opus

		if isVideo {
			tp.Width = opts.Width
			tp.Height = opts.Height
			tp.FPSHint = sub.VideoFPS()
			if tp.FPSHint == 0 {
				tp.FPSHint = opts.FPS
			}
			if isH264 {
				h264Codec = &codecs.H264{}
				sps, pps, err := avc.SplitSpropParameterSets(sub.FmtpSpropParameterSets())
				if err != nil {
					return nil, fmt.Errorf("rtsp2mkv: subsession %s: %w", codecName, err)
				}
				h264Codec.SafeSetParams(sps, pps)
				curSPS, curPPS := h264Codec.SafeParams()
				rec, err := avc.EncodeAVCCConfigRecord(curSPS, curPPS)
				if err != nil {
					return nil, fmt.Errorf("rtsp2mkv: subsession %s: %w", codecName, err)
				}
				tp.CodecPrivate = rec
			}
		} else {
			channels := sub.NumChannels()
			if codecName == "OPUS" {
				// RFC 7587 mandates advertising "/2" in the SDP rtpmap, but
				// the capture pipeline is mono; storing the true channel
				// count here prevents a decoder from upmixing (§4.B).
				channels = 1
				opusCodec = &codecs.Opus{ChannelCount: channels}
			}
			tp.Channels = uint8(channels)
			tp.SamplingFrequency = float32(sub.RTPTimestampFrequency())
		}

		tracks = append(tracks, tp)

		io := newIOState(sub, trackNumber, isVideo, isH264)
		io.h264Codec = h264Codec
		io.opusCodec = opusCodec
		s.ioStates = append(s.ioStates, io)
		s.activeCount++
	}

	s.tracks = tracks
	return s, nil
}
