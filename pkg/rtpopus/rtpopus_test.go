package rtpopus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDepacketizerDTX(t *testing.T) {
	d := &Depacketizer{}
	f, err := d.Decode(nil)
	require.NoError(t, err)
	require.True(t, f.DTX)
	require.Nil(t, f.Payload)
}

func TestDepacketizerConfigAndStereo(t *testing.T) {
	d := &Depacketizer{}
	f, err := d.Decode([]byte{0b0001_0101, 0xAA, 0xBB})
	require.NoError(t, err)
	require.False(t, f.DTX)
	require.Equal(t, 0b10101, f.Config)
	require.True(t, f.Stereo)
}

func TestFrameDurationTable(t *testing.T) {
	require.Equal(t, 480, FrameDurationSamples(0))
	require.Equal(t, 960, FrameDurationSamples(1))
	require.Equal(t, 1920, FrameDurationSamples(2))
	require.Equal(t, 2880, FrameDurationSamples(3))
	require.Equal(t, 120, FrameDurationSamples(16))
	require.Equal(t, 0, FrameDurationSamples(32))
	require.Equal(t, 0, FrameDurationSamples(-1))
}

func TestConvertTimestamp(t *testing.T) {
	require.Equal(t, uint32(48000), ConvertTimestamp(8000, 8000))
	require.Equal(t, uint32(96000), ConvertTimestamp(16000, 8000))
}

func TestFrameCanAppearAfterPacketStartAlwaysFalse(t *testing.T) {
	p := NewPacketizer(PacketizerOptions{PayloadType: 96})
	require.False(t, p.FrameCanAppearAfterPacketStart())
	require.Equal(t, 0, p.SpecialHeaderSize())
}

func TestPacketizeRejectsZeroLengthWithoutDTX(t *testing.T) {
	p := NewPacketizer(PacketizerOptions{PayloadType: 96})
	_, err := p.Packetize(nil, 0, false)
	require.Error(t, err)
}

func TestPacketizeAllowsZeroLengthWithDTX(t *testing.T) {
	p := NewPacketizer(PacketizerOptions{PayloadType: 96, DTXEnabled: true})
	pkt, err := p.Packetize(nil, 1000, false)
	require.NoError(t, err)
	require.Equal(t, uint8(96), pkt.PayloadType)
}

func TestFmtpLine(t *testing.T) {
	p := NewPacketizer(PacketizerOptions{
		PayloadType:       96,
		Stereo:            false,
		FECEnabled:        true,
		DTXEnabled:        false,
		MaxAverageBitrate: 128000,
	})
	require.Equal(t, "a=fmtp:96 stereo=0 useinbandfec=1 maxaveragebitrate=128000\r\n", p.FmtpLine())
	// cached: calling again returns the same value.
	require.Equal(t, p.FmtpLine(), p.FmtpLine())
}

func TestFmtpAttribute(t *testing.T) {
	p := NewPacketizer(PacketizerOptions{PayloadType: 96, MaxPlaybackRate: 16000})
	attr := p.FmtpAttribute()
	require.Equal(t, "fmtp", attr.Key)
	require.Equal(t, "96 maxplaybackrate=16000 stereo=0", attr.Value)
}
