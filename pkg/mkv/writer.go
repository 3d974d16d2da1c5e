package mkv

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bluenviron/rtsp2mkv/pkg/ebml"
)

// Options configures the SegmentInfo element.
type Options struct {
	// TimecodeScale in nanoseconds per tick. Fixed at 1,000,000 (1ms
	// resolution) by spec.md §3; exposed for tests that want to assert
	// the literal, not to vary behavior.
	TimecodeScale uint32
	MuxingApp     string
	WritingApp    string
}

// DefaultOptions returns the options every Sink uses in practice.
func DefaultOptions() Options {
	return Options{
		TimecodeScale: 1_000_000,
		MuxingApp:     "rtsp2mkv",
		WritingApp:    "rtsp2mkv",
	}
}

// Writer emits a streamable Matroska bitstream to w. It never seeks: the
// Segment and every Cluster are opened with an unknown-size marker and left
// that way, matching spec.md §4.B's "no seek-back" rule.
type Writer struct {
	w    io.Writer
	opts Options

	headersWritten bool
	clusterOpen    bool
	needNewCluster bool
	clusterTimeMS  int64
	completed      bool
}

// NewWriter creates a Writer over w with opts. It does not write anything
// until Open is called.
func NewWriter(w io.Writer, opts Options) *Writer {
	return &Writer{w: w, opts: opts}
}

// Open writes the EBML header, the Segment's unknown-size marker, an empty
// SeekHead, SegmentInfo and one TrackEntry per track, in that order (§4.B
// steps 1-5). It must be called exactly once, before any cluster is opened.
func (mw *Writer) Open(tracks []TrackParams) error {
	if mw.headersWritten {
		return fmt.Errorf("mkv: Open called twice")
	}

	if err := mw.writeEBMLHeader(); err != nil {
		return err
	}
	if err := writeUnknownSizeHeader(mw.w, ebml.IDSegment); err != nil {
		return err
	}
	if err := writeElement(mw.w, ebml.IDSeekHead, nil); err != nil {
		return err
	}
	if err := mw.writeSegmentInfo(); err != nil {
		return err
	}
	if err := mw.writeTracks(tracks); err != nil {
		return err
	}

	mw.headersWritten = true
	mw.needNewCluster = true
	return nil
}

func (mw *Writer) writeEBMLHeader() error {
	var e elementBuf
	e.put(ebml.IDDocType, []byte("matroska"))
	e.put(ebml.IDDocTypeVer, ebml.U8(4))
	e.put(ebml.IDDocTypeRead, ebml.U8(2))
	e.put(ebml.IDEBMLMaxID, ebml.U8(4))
	e.put(ebml.IDEBMLMaxSize, ebml.U8(8))
	return writeElement(mw.w, ebml.IDEBML, e.bytes())
}

func (mw *Writer) writeSegmentInfo() error {
	var e elementBuf
	e.put(ebml.IDTimecodeScale, ebml.U32BE(mw.opts.TimecodeScale))
	e.put(ebml.IDMuxingApp, []byte(mw.opts.MuxingApp))
	e.put(ebml.IDWritingApp, []byte(mw.opts.WritingApp))
	return writeElement(mw.w, ebml.IDInfo, e.bytes())
}

func (mw *Writer) writeTracks(tracks []TrackParams) error {
	var e elementBuf
	for _, t := range tracks {
		e.put(ebml.IDTrackEntry, buildTrackEntry(t))
	}
	return writeElement(mw.w, ebml.IDTracks, e.bytes())
}

// NeedNewCluster reports whether the next SimpleBlock must open a new
// cluster, either because none is open yet or because the caller explicitly
// requested one (e.g. a relative timecode would overflow 16 bits).
func (mw *Writer) NeedNewCluster() bool {
	return mw.needNewCluster
}

// RequestNewCluster forces the next WriteSimpleBlock to open a fresh
// cluster before writing, used when the relative timecode of the pending
// block would overflow the signed-16-bit SimpleBlock field (§4.B).
func (mw *Writer) RequestNewCluster() {
	mw.needNewCluster = true
}

// OpenCluster starts a new Cluster at timecodeMS (relative to the sink's
// anchor start time) and clears NeedNewCluster.
func (mw *Writer) OpenCluster(timecodeMS int64) error {
	if !mw.headersWritten {
		return fmt.Errorf("mkv: OpenCluster called before Open")
	}
	if err := writeUnknownSizeHeader(mw.w, ebml.IDCluster); err != nil {
		return err
	}
	tc := ebml.UintMinBE(uint64(timecodeMS))
	if err := writeElement(mw.w, ebml.IDTimecode, tc); err != nil {
		return err
	}
	mw.clusterOpen = true
	mw.needNewCluster = false
	mw.clusterTimeMS = timecodeMS
	return nil
}

// ClusterTimecodeMS returns the timecode, in ms, of the currently open
// cluster.
func (mw *Writer) ClusterTimecodeMS() int64 {
	return mw.clusterTimeMS
}

// WriteSimpleBlock writes a SimpleBlock element: VINT(track) ‖ i16be(rel_tc)
// ‖ flags ‖ payload (§4.B, §8 property 6). relativeMS must already fit in a
// signed 16-bit field; callers are expected to call RequestNewCluster and
// OpenCluster first when it would not (spec.md §3 invariant).
func (mw *Writer) WriteSimpleBlock(trackNumber uint64, relativeMS int64, keyframe bool, payload []byte) error {
	if !mw.clusterOpen {
		return fmt.Errorf("mkv: WriteSimpleBlock called with no open cluster")
	}
	if relativeMS < -32768 || relativeMS > 32767 {
		return fmt.Errorf("mkv: relative timecode %d overflows signed 16 bits", relativeMS)
	}

	trackVint, err := ebml.EncodeVint(trackNumber)
	if err != nil {
		return err
	}

	var flags byte
	if keyframe {
		flags |= ebml.SimpleBlockFlagKeyframe
	}

	body := make([]byte, 0, len(trackVint)+2+1+len(payload))
	body = append(body, trackVint...)
	var rel [2]byte
	binary.BigEndian.PutUint16(rel[:], uint16(int16(relativeMS)))
	body = append(body, rel[:]...)
	body = append(body, flags)
	body = append(body, payload...)

	return writeElement(mw.w, ebml.IDSimpleBlock, body)
}

// Close writes an empty Cues element and marks the output complete. It is
// idempotent: subsequent calls are no-ops, matching the
// have-completed-output-file latch of spec.md §5.
func (mw *Writer) Close() error {
	if mw.completed {
		return nil
	}
	if !mw.headersWritten {
		// an empty session still produces a well-formed, empty document.
		if err := mw.writeEBMLHeader(); err != nil {
			return err
		}
		if err := writeUnknownSizeHeader(mw.w, ebml.IDSegment); err != nil {
			return err
		}
		if err := writeElement(mw.w, ebml.IDSeekHead, nil); err != nil {
			return err
		}
		if err := mw.writeSegmentInfo(); err != nil {
			return err
		}
		if err := mw.writeTracks(nil); err != nil {
			return err
		}
		mw.headersWritten = true
	}

	if err := writeElement(mw.w, ebml.IDCues, nil); err != nil {
		return err
	}
	mw.completed = true
	return nil
}

// Completed reports whether Close has already finalized the output.
func (mw *Writer) Completed() bool {
	return mw.completed
}
