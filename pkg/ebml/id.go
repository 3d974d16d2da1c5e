package ebml

// Matroska/EBML element IDs used by pkg/mkv. Widths are implicit in the
// magnitude of the constant (RFC 8794 Table 2): the number of leading
// non-zero bytes is the element's ID width.
const (
	IDEBML        uint32 = 0x1A45DFA3
	IDEBMLVersion uint32 = 0x4286
	IDEBMLReadVer uint32 = 0x42F7
	IDEBMLMaxID   uint32 = 0x42F2
	IDEBMLMaxSize uint32 = 0x42F3
	IDDocType     uint32 = 0x4282
	IDDocTypeVer  uint32 = 0x4287
	IDDocTypeRead uint32 = 0x4285

	IDSegment uint32 = 0x18538067

	IDSeekHead uint32 = 0x114D9B74

	IDInfo          uint32 = 0x1549A966
	IDTimecodeScale uint32 = 0x2AD7B1
	IDMuxingApp     uint32 = 0x4D80
	IDWritingApp    uint32 = 0x5741

	IDTracks          uint32 = 0x1654AE6B
	IDTrackEntry      uint32 = 0xAE
	IDTrackNumber     uint32 = 0xD7
	IDTrackUID        uint32 = 0x73C5
	IDTrackType       uint32 = 0x83
	IDCodecID         uint32 = 0x86
	IDCodecPrivate    uint32 = 0x63A2
	IDDefaultDuration uint32 = 0x23E383
	IDVideo           uint32 = 0xE0
	IDPixelWidth      uint32 = 0xB0
	IDPixelHeight     uint32 = 0xBA
	IDAudio           uint32 = 0xE1
	IDSamplingFreq    uint32 = 0xB5
	IDChannels        uint32 = 0x9F

	IDCluster     uint32 = 0x1F43B675
	IDTimecode    uint32 = 0xE7
	IDSimpleBlock uint32 = 0xA3

	IDCues uint32 = 0x1C53BB6B
)

// TrackType values (Matroska §11.2.2).
const (
	TrackTypeVideo = 1
	TrackTypeAudio = 2
)

// SimpleBlock flag bits.
const (
	SimpleBlockFlagKeyframe = 0x80
)
