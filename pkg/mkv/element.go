// Package mkv writes a streamable EBML/Matroska bitstream: an EBML header,
// an unknown-size Segment, SegmentInfo, Tracks, and a sequence of
// unknown-size Clusters carrying SimpleBlocks. No seek-back is performed;
// every element's size is computed up front, matching spec.md §4.B.
package mkv

import (
	"io"

	"github.com/bluenviron/rtsp2mkv/pkg/ebml"
)

// writeElement writes id, its VINT-encoded size, and payload, in that order.
// Callers build the payload first (in memory) so the size is known without
// backpatching — required because the output is written to a single
// sequential stream.
func writeElement(w io.Writer, id uint32, payload []byte) error {
	if _, err := w.Write(ebml.EncodeID(id)); err != nil {
		return err
	}
	size, err := ebml.EncodeVint(uint64(len(payload)))
	if err != nil {
		return err
	}
	if _, err := w.Write(size); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// writeUnknownSizeHeader writes id followed by an 8-byte unknown-size VINT
// and returns nothing more: the element's content is written incrementally
// by the caller (used for Segment and Cluster).
func writeUnknownSizeHeader(w io.Writer, id uint32) error {
	if _, err := w.Write(ebml.EncodeID(id)); err != nil {
		return err
	}
	marker, err := ebml.EncodeUnknownSize(8)
	if err != nil {
		return err
	}
	_, err = w.Write(marker)
	return err
}

// elementBuf is a small helper for assembling a sub-element's payload
// in memory before it is wrapped by writeElement, mirroring the way
// gohlslib's fMP4 box writers built child boxes bottom-up before sizing
// the parent.
type elementBuf struct {
	buf []byte
}

func (e *elementBuf) put(id uint32, payload []byte) {
	e.buf = append(e.buf, ebml.EncodeID(id)...)
	size, _ := ebml.EncodeVint(uint64(len(payload)))
	e.buf = append(e.buf, size...)
	e.buf = append(e.buf, payload...)
}

func (e *elementBuf) bytes() []byte {
	return e.buf
}
