package rtsp2mkv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeSource is a minimal in-memory ReadSource driven directly by tests,
// grounded on gohlslib's muxer_test.go pattern of hand-built test fixtures
// rather than a mock framework.
type fakeSource struct {
	frames   [][]byte
	times    []time.Time
	markers  []bool
	pos      int
	awaiting bool
	dstBuf   []byte
	onReady  FrameReadyFunc
	onClose  SourceClosureFunc
}

func (f *fakeSource) GetNextFrame(buf []byte, onReady FrameReadyFunc, onClose SourceClosureFunc) {
	f.awaiting = true
	f.dstBuf = buf
	f.onReady = onReady
	f.onClose = onClose
}

func (f *fakeSource) IsCurrentlyAwaitingData() bool {
	return f.awaiting
}

func (f *fakeSource) CurrentPacketMarkerBit() bool {
	if f.pos == 0 || f.pos > len(f.markers) {
		return false
	}
	return f.markers[f.pos-1]
}

// deliver copies the next queued frame into the destination buffer handed
// to the outstanding GetNextFrame call, or closes the source once every
// queued frame has been delivered.
func (f *fakeSource) deliver() {
	if f.pos >= len(f.frames) {
		f.awaiting = false
		cb := f.onClose
		f.onClose = nil
		if cb != nil {
			cb()
		}
		return
	}
	frame := f.frames[f.pos]
	pts := f.times[f.pos]
	f.pos++
	n := copy(f.dstBuf, frame)
	f.awaiting = false
	cb := f.onReady
	f.onReady = nil
	if cb != nil {
		cb(n, 0, pts)
	}
}

type fakeSubsession struct {
	medium   string
	codec    string
	freq     int
	channels int
	fps      float64
	sprop    string
	source   *fakeSource
}

func (f *fakeSubsession) MediumName() string             { return f.medium }
func (f *fakeSubsession) CodecName() string              { return f.codec }
func (f *fakeSubsession) RTPTimestampFrequency() int     { return f.freq }
func (f *fakeSubsession) NumChannels() int                { return f.channels }
func (f *fakeSubsession) VideoFPS() float64              { return f.fps }
func (f *fakeSubsession) FmtpSpropParameterSets() string { return f.sprop }
func (f *fakeSubsession) ReadSource() ReadSource         { return f.source }

type fakeSession struct {
	subs []Subsession
}

func (f *fakeSession) Subsessions() []Subsession { return f.subs }

type memWriter struct {
	buf []byte
}

func (m *memWriter) Write(p []byte) (int, error) {
	m.buf = append(m.buf, p...)
	return len(p), nil
}

func TestSinkRejectsEmptySession(t *testing.T) {
	_, err := New(&fakeSession{}, &memWriter{}, Options{})
	require.Error(t, err)
}

func TestSinkAudioOnlyOpusThreeBlocks(t *testing.T) {
	audioSrc := &fakeSource{
		frames: [][]byte{{0x01}, {0x01}, {0x01}},
		times: []time.Time{
			time.Unix(0, 0),
			time.Unix(0, 20*int64(time.Millisecond)),
			time.Unix(0, 40*int64(time.Millisecond)),
		},
	}
	sub := &fakeSubsession{medium: "audio", codec: "OPUS", freq: 48000, channels: 2, source: audioSrc}
	session := &fakeSession{subs: []Subsession{sub}}

	out := &memWriter{}
	sink, err := New(session, out, Options{})
	require.NoError(t, err)

	var completed bool
	require.True(t, sink.StartPlaying(func() { completed = true }))

	for i := 0; i < 4; i++ {
		audioSrc.deliver()
	}

	require.True(t, completed)
	require.True(t, len(out.buf) > 0)
}

func TestSinkH264AnnexBSingleBlockPerMarker(t *testing.T) {
	sps := []byte{0x67, 0x42, 0x00, 0x1E}
	pps := []byte{0x68, 0xCE, 0x3C, 0x80}
	idr := []byte{0x65, 0xAA}

	var frame []byte
	frame = append(frame, 0x00, 0x00, 0x00, 0x01)
	frame = append(frame, sps...)
	frame = append(frame, 0x00, 0x00, 0x00, 0x01)
	frame = append(frame, pps...)
	frame = append(frame, 0x00, 0x00, 0x00, 0x01)
	frame = append(frame, idr...)

	videoSrc := &fakeSource{
		frames:  [][]byte{frame},
		times:   []time.Time{time.Unix(0, 0)},
		markers: []bool{true},
	}
	sub := &fakeSubsession{medium: "video", codec: "H264", fps: 15, source: videoSrc}
	session := &fakeSession{subs: []Subsession{sub}}

	out := &memWriter{}
	sink, err := New(session, out, Options{})
	require.NoError(t, err)

	require.True(t, sink.StartPlaying(func() {}))
	videoSrc.deliver() // delivers frame, triggers marker-bit flush
	videoSrc.deliver() // no frames left, closes the source

	require.True(t, len(out.buf) > 0)
}
