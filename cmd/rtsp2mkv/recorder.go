package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bluenviron/gortsplib/v4"
	"github.com/bluenviron/gortsplib/v4/pkg/base"
	"github.com/bluenviron/gortsplib/v4/pkg/format"
	"github.com/bluenviron/gortsplib/v4/pkg/format/rtph264"
	"github.com/pion/rtp"

	"github.com/bluenviron/rtsp2mkv"
	"github.com/bluenviron/rtsp2mkv/pkg/rtpopus"
)

// Recorder owns one RTSP session and the rtsp2mkv.Sink muxing it to disk.
// Its RTP callbacks run on gortsplib's own per-connection goroutine; netMu
// serializes them against each other and against Stop, since the sink
// underneath assumes the single cooperative task of the original design
// rather than true concurrency.
type Recorder struct {
	netMu sync.Mutex

	client *gortsplib.Client
	sink   *rtsp2mkv.Sink
	file   *os.File
}

// Start dials rtspURL, negotiates the H264 and/or Opus medias it finds,
// and begins muxing into a new file at outputPath.
func Start(rtspURL, outputPath string) (*Recorder, error) {
	u, err := base.ParseURL(rtspURL)
	if err != nil {
		return nil, fmt.Errorf("rtsp2mkv: invalid RTSP URL: %w", err)
	}

	c := &gortsplib.Client{}
	if err := c.Start(u.Scheme, u.Host); err != nil {
		return nil, fmt.Errorf("rtsp2mkv: connect: %w", err)
	}

	desc, _, err := c.Describe(u)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("rtsp2mkv: describe: %w", err)
	}

	var h264Format *format.H264
	h264Media := desc.FindFormat(&h264Format)
	var opusFormat *format.Opus
	opusMedia := desc.FindFormat(&opusFormat)

	if h264Media == nil && opusMedia == nil {
		c.Close()
		return nil, fmt.Errorf("rtsp2mkv: no H264 or Opus media advertised")
	}

	f, err := os.Create(outputPath)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("rtsp2mkv: create output: %w", err)
	}

	var subs []rtsp2mkv.Subsession
	r := &Recorder{client: c, file: f}

	if h264Media != nil {
		bridge := &rtpBridgeSource{}
		subs = append(subs, &subsessionAdapter{
			medium: "video",
			codec:  "H264",
			sprop:  spropFromH264(h264Format),
			fps:    0,
			bridge: bridge,
		})

		dec, err := rtph264.NewDecoder()
		if err != nil {
			c.Close()
			f.Close()
			return nil, fmt.Errorf("rtsp2mkv: h264 decoder: %w", err)
		}

		c.OnPacketRTP(h264Media, h264Format, func(pkt *rtp.Packet) {
			r.netMu.Lock()
			defer r.netMu.Unlock()

			nals, err := dec.Decode(pkt)
			if err != nil {
				if err != rtph264.ErrNonStartingPacketAndNoPrevious && err != rtph264.ErrMorePacketsNeeded {
					colorLogFunc(rtsp2mkv.LogLevelWarn, "h264 decode: %v", err)
				}
				return
			}

			pts, ok := c.PacketPTS2(h264Media, pkt)
			if !ok {
				return
			}

			var frame []byte
			for _, nal := range nals {
				frame = append(frame, 0x00, 0x00, 0x00, 0x01)
				frame = append(frame, nal...)
			}
			bridge.Push(frame, time.Now().Add(pts), true)
		})
	}

	if opusMedia != nil {
		bridge := &rtpBridgeSource{}
		const channels = 2 // RFC 7587 always advertises stereo in the rtpmap

		subs = append(subs, &subsessionAdapter{
			medium:   "audio",
			codec:    "OPUS",
			freq:     opusFormat.ClockRate(),
			channels: channels,
			bridge:   bridge,
		})

		depay := &rtpopus.Depacketizer{NumChannels: channels}

		c.OnPacketRTP(opusMedia, opusFormat, func(pkt *rtp.Packet) {
			r.netMu.Lock()
			defer r.netMu.Unlock()

			frame, err := depay.Decode(pkt.Payload)
			if err != nil {
				colorLogFunc(rtsp2mkv.LogLevelWarn, "opus decode: %v", err)
				return
			}

			pts, ok := c.PacketPTS2(opusMedia, pkt)
			if !ok {
				return
			}
			bridge.Push(frame.Payload, time.Now().Add(pts), true)
		})
	}

	sink, err := rtsp2mkv.New(&sessionAdapter{subs: subs}, f, rtsp2mkv.Options{Log: colorLogFunc})
	if err != nil {
		c.Close()
		f.Close()
		return nil, err
	}
	r.sink = sink

	if err := c.SetupAll(desc.BaseURL, desc.Medias); err != nil {
		c.Close()
		f.Close()
		return nil, fmt.Errorf("rtsp2mkv: setup: %w", err)
	}

	if _, err := c.Play(nil); err != nil {
		c.Close()
		f.Close()
		return nil, fmt.Errorf("rtsp2mkv: play: %w", err)
	}

	sink.StartPlaying(func() {
		colorLogFunc(rtsp2mkv.LogLevelInfo, "recording finalized: %s", outputPath)
	})

	return r, nil
}

// Stop tears down the RTSP session and finalizes the MKV output.
func (r *Recorder) Stop() error {
	r.netMu.Lock()
	defer r.netMu.Unlock()

	r.client.Close()
	err := r.sink.Close()
	r.file.Close()
	return err
}
