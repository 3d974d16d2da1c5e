package ebml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeVintBoundaries(t *testing.T) {
	for _, ca := range []struct {
		name string
		in   uint64
		out  []byte
	}{
		{"126 fits in 1 byte", 126, []byte{0xFE}},
		{"127 needs 2 bytes", 127, []byte{0x40, 0x7F}},
		{"16382 fits in 2 bytes", 16382, []byte{0x7F, 0xFE}},
		{"16383 needs 3 bytes", 16383, []byte{0x20, 0x3F, 0xFF}},
	} {
		t.Run(ca.name, func(t *testing.T) {
			out, err := EncodeVint(ca.in)
			require.NoError(t, err)
			require.Equal(t, ca.out, out)
		})
	}
}

func TestVintRoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 63, 126, 127, 1000, 16382, 16383, 2097150, 2097151, 1 << 40} {
		enc, err := EncodeVint(n)
		require.NoError(t, err)

		dec, length, unknown, err := DecodeVint(enc)
		require.NoError(t, err)
		require.Equal(t, n, dec)
		require.Equal(t, len(enc), length)
		require.False(t, unknown)
	}
}

func TestEncodeUnknownSize(t *testing.T) {
	out, err := EncodeUnknownSize(8)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, out)

	out, err = EncodeUnknownSize(1)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF}, out)
}

func TestDecodeVintUnknown(t *testing.T) {
	enc, err := EncodeUnknownSize(8)
	require.NoError(t, err)

	_, _, unknown, err := DecodeVint(enc)
	require.NoError(t, err)
	require.True(t, unknown)
}

func TestEncodeID(t *testing.T) {
	require.Equal(t, []byte{0x1A, 0x45, 0xDF, 0xA3}, EncodeID(IDEBML))
	require.Equal(t, []byte{0xA3}, EncodeID(IDSimpleBlock))
}

func TestFixedWidthHelpers(t *testing.T) {
	require.Equal(t, []byte{0x2A}, U8(0x2A))
	require.Equal(t, []byte{0x00, 0x0F}, U16BE(15))
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x0F}, U32BE(15))
	require.Equal(t, []byte{0x47, 0x3B, 0x80, 0x00}, Float32BE(48000))
}
