package avc

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

var testSPS = []byte{0x67, 0x42, 0x00, 0x1E, 0x11, 0x22, 0x33}
var testPPS = []byte{0x68, 0xCE, 0x3C, 0x80}

func TestSplitAnnexBThreeNALs(t *testing.T) {
	var buf []byte
	buf = append(buf, 0x00, 0x00, 0x00, 0x01)
	buf = append(buf, testSPS...)
	buf = append(buf, 0x00, 0x00, 0x00, 0x01)
	buf = append(buf, testPPS...)
	buf = append(buf, 0x00, 0x00, 0x01)
	idr := []byte{0x65, 0xAA, 0xBB}
	buf = append(buf, idr...)

	nals := SplitAnnexB(buf)
	require.Len(t, nals, 3)
	require.Equal(t, testSPS, nals[0])
	require.Equal(t, testPPS, nals[1])
	require.Equal(t, idr, nals[2])
}

func TestContainsIDR(t *testing.T) {
	require.True(t, ContainsIDR([][]byte{testSPS, testPPS, {0x65, 0x00}}))
	require.False(t, ContainsIDR([][]byte{testSPS, testPPS, {0x61, 0x00}}))
}

func TestEncodeAVCCConfigRecord(t *testing.T) {
	rec, err := EncodeAVCCConfigRecord(testSPS, testPPS)
	require.NoError(t, err)

	expected := []byte{0x01, 0x42, 0x00, 0x1E, 0xFF, 0xE1, 0x00, byte(len(testSPS))}
	expected = append(expected, testSPS...)
	expected = append(expected, 0x01, 0x00, byte(len(testPPS)))
	expected = append(expected, testPPS...)

	require.Equal(t, expected, rec)
}

func TestEncodeAVCCConfigRecordRejectsShortSPS(t *testing.T) {
	_, err := EncodeAVCCConfigRecord([]byte{0x67, 0x42}, testPPS)
	require.Error(t, err)
}

func TestEncodeAVCCConfigRecordEmptyWithoutParams(t *testing.T) {
	rec, err := EncodeAVCCConfigRecord(nil, testPPS)
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestSplitSpropParameterSets(t *testing.T) {
	sprop := base64.StdEncoding.EncodeToString(testSPS) + "," + base64.StdEncoding.EncodeToString(testPPS)
	sps, pps, err := SplitSpropParameterSets(sprop)
	require.NoError(t, err)
	require.Equal(t, testSPS, sps)
	require.Equal(t, testPPS, pps)
}

func TestPendingAUFlushOnMarker(t *testing.T) {
	var au PendingAU
	require.False(t, au.NonEmpty())

	au.PushFrame(append([]byte{0x00, 0x00, 0x00, 0x01}, testSPS...), 100)
	au.PushFrame(append([]byte{0x00, 0x00, 0x00, 0x01}, testPPS...), 100)
	au.PushFrame(append([]byte{0x00, 0x00, 0x00, 0x01}, 0x65, 0xAA), 100)

	payload, pts, keyframe, ok := au.Flush()
	require.True(t, ok)
	require.Equal(t, int64(100), pts)
	require.True(t, keyframe)

	expected := EncodeAVCCLength(testSPS)
	expected = append(expected, EncodeAVCCLength(testPPS)...)
	expected = append(expected, EncodeAVCCLength([]byte{0x65, 0xAA})...)
	require.Equal(t, expected, payload)

	require.False(t, au.NonEmpty())
	_, _, _, ok = au.Flush()
	require.False(t, ok)
}
