package mkv

import (
	"io"
	"testing"

	"github.com/orcaman/writerseeker"
	"github.com/stretchr/testify/require"

	"github.com/bluenviron/rtsp2mkv/pkg/ebml"
)

func readAll(t *testing.T, ws *writerseeker.WriterSeeker) []byte {
	b, err := io.ReadAll(ws.Reader())
	require.NoError(t, err)
	return b
}

func TestEmptySessionProducesWellFormedDocument(t *testing.T) {
	var ws writerseeker.WriterSeeker
	w := NewWriter(&ws, DefaultOptions())

	require.NoError(t, w.Close())
	require.True(t, w.Completed())

	out := readAll(t, &ws)
	require.True(t, len(out) > 0)
	require.Equal(t, []byte{0x1A, 0x45, 0xDF, 0xA3}, out[:4])

	// Segment ID + 8-byte unknown-size marker follow the EBML header.
	segmentOffset := findHeaderEnd(out)
	require.Equal(t, []byte{0x18, 0x53, 0x80, 0x67}, out[segmentOffset:segmentOffset+4])
}

// findHeaderEnd walks the EBML header element to locate where the Segment
// element begins, using the codec's own VINT decoder rather than a fixed
// offset so the test stays correct if header contents change length.
func findHeaderEnd(buf []byte) int {
	const idLen = 4 // EBML ID is always 4 bytes (0x1A45DFA3)
	headerSize, sizeLen, _, err := ebml.DecodeVint(buf[idLen:])
	if err != nil {
		panic(err)
	}
	return idLen + sizeLen + int(headerSize)
}

func TestAudioOnlyOpusOneClusterThreeBlocks(t *testing.T) {
	var ws writerseeker.WriterSeeker
	w := NewWriter(&ws, DefaultOptions())

	tracks := []TrackParams{
		{
			Number:            2,
			Kind:              TrackAudio,
			CodecID:           CodecIDFor(TrackAudio, "OPUS"),
			SamplingFrequency: 48000,
			Channels:          1,
		},
	}
	require.NoError(t, w.Open(tracks))
	require.True(t, w.NeedNewCluster())

	require.NoError(t, w.OpenCluster(0))
	require.Equal(t, int64(0), w.ClusterTimecodeMS())

	for _, rel := range []int64{0, 20, 40} {
		require.NoError(t, w.WriteSimpleBlock(2, rel, true, []byte{0x01, 0x02}))
	}

	require.NoError(t, w.Close())
}

func TestWriteSimpleBlockRejectsOverflowingTimecode(t *testing.T) {
	var ws writerseeker.WriterSeeker
	w := NewWriter(&ws, DefaultOptions())
	require.NoError(t, w.Open(nil))
	require.NoError(t, w.OpenCluster(0))

	err := w.WriteSimpleBlock(1, 40000, false, nil)
	require.Error(t, err)
}

func TestCodecIDMapping(t *testing.T) {
	require.Equal(t, "V_MPEG4/ISO/AVC", CodecIDFor(TrackVideo, "H264"))
	require.Equal(t, "V_MPEGH/ISO/HEVC", CodecIDFor(TrackVideo, "H265"))
	require.Equal(t, "V_UNCOMPRESSED", CodecIDFor(TrackVideo, "VP8"))
	require.Equal(t, "A_OPUS", CodecIDFor(TrackAudio, "OPUS"))
	require.Equal(t, "A_VORBIS", CodecIDFor(TrackAudio, "VORBIS"))
	require.Equal(t, "A_AAC", CodecIDFor(TrackAudio, "MPEG4-GENERIC"))
	require.Equal(t, "A_PCM/INT/LIT", CodecIDFor(TrackAudio, "G711"))
}
