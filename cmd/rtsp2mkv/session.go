package main

import (
	"encoding/base64"
	"strings"

	"github.com/bluenviron/gortsplib/v4/pkg/format"

	"github.com/bluenviron/rtsp2mkv"
)

// subsessionAdapter exposes one gortsplib media/format pair through the
// rtsp2mkv.Subsession contract. It never touches the network itself: RTP
// delivery is pushed into its bridge by the recorder's OnPacketRTP
// callbacks.
type subsessionAdapter struct {
	medium   string
	codec    string
	freq     int
	channels int
	fps      float64
	sprop    string
	bridge   *rtpBridgeSource
}

func (s *subsessionAdapter) MediumName() string              { return s.medium }
func (s *subsessionAdapter) CodecName() string                { return s.codec }
func (s *subsessionAdapter) RTPTimestampFrequency() int       { return s.freq }
func (s *subsessionAdapter) NumChannels() int                 { return s.channels }
func (s *subsessionAdapter) VideoFPS() float64                { return s.fps }
func (s *subsessionAdapter) FmtpSpropParameterSets() string   { return s.sprop }
func (s *subsessionAdapter) ReadSource() rtsp2mkv.ReadSource  { return s.bridge }

type sessionAdapter struct {
	subs []rtsp2mkv.Subsession
}

func (s *sessionAdapter) Subsessions() []rtsp2mkv.Subsession { return s.subs }

// spropFromH264 rebuilds the base64, comma-separated sprop-parameter-sets
// string from a decoded format.H264's SPS/PPS, so the downstream pipeline
// can go through the same avc.SplitSpropParameterSets path it would for a
// live SDP answer.
func spropFromH264(f *format.H264) string {
	sps, pps := f.SafeParams()
	if sps == nil || pps == nil {
		return ""
	}
	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(sps),
		base64.StdEncoding.EncodeToString(pps),
	}, ",")
}
