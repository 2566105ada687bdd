// Package webm extracts structural metadata from EBML-based media containers
// (WebM, Matroska): document type, presentation duration, creation date, and
// the pixel dimensions of the first video track. It is built for partial
// input: every parsing step is a pure function of the bytes buffered so far
// and a target offset, and reports an exact byte shortfall through
// ebml.NeedMoreError when the prefix is insufficient, so an ebml.Source can
// grow the buffer and re-run the step.
//
// Refer to:
//   - https://www.matroska.org/technical/elements.html
//   - https://github.com/ietf-wg-cellar/ebml-specification
package webm

import (
	"errors"
	"time"

	"github.com/autobrr/go-webminfo/internal/ebml"
)

// ErrNotWebm means the input is not an EBML container with a leading
// document-type declaration followed by a Segment element.
var ErrNotWebm = errors.New("not a webm file")

// FileInfo is the parse result. Fields are left at their zero values when the
// corresponding element is absent; absence is not an error.
type FileInfo struct {
	DocType string
	Info    SegmentInfo
	Tracks  TracksInfo
}

// SegmentInfo carries the Segment's Info element fields.
type SegmentInfo struct {
	// DurationNs is the Duration element value scaled by the segment's
	// timestamp scale, in nanoseconds.
	DurationNs float64
	// CreationDate is the Date element converted to an absolute time.
	CreationDate time.Time
}

// TracksInfo carries the pixel dimensions of the first video track.
type TracksInfo struct {
	Width  uint64
	Height uint64
}

// matroskaEpoch is the zero point of the format's Date element.
var matroskaEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// Parse drives a full metadata extraction against src.
//
// It decodes the document type, verifies the next top-level element is a
// Segment, and then locates the Info and Tracks elements either through the
// Segment's SeekHead (random access) or, when the seek table is absent or
// unusable, by linearly scanning the Segment's children. A missing Info or
// Tracks element leaves the corresponding result field at its default.
func Parse(src ebml.Source) (FileInfo, error) {
	var info FileInfo
	var pos int

	err := src.LoadAndParse(func(buf []byte) error {
		c := ebml.NewCursor(buf)
		docType, err := ebml.ParseDocType(c)
		if err != nil {
			return err
		}
		info.DocType = docType
		pos = c.Pos()
		return nil
	})
	if err != nil {
		if errors.Is(err, ebml.ErrNotEBML) {
			return FileInfo{}, ErrNotWebm
		}
		return FileInfo{}, err
	}

	// segEnd is the exclusive absolute end of the Segment payload, or -1 when
	// the Segment declares an unknown size.
	segEnd := -1
	err = src.LoadAndParseAt(func(buf []byte, at int) error {
		c := ebml.NewCursor(buf[at:])
		h, err := ebml.NextHeader(c)
		if err != nil {
			return err
		}
		if id, ok := asTopID(h.ID); !ok || id != idSegment {
			return ErrNotWebm
		}
		pos = at + c.Pos()
		segEnd = -1
		if h.DataSize != ebml.SizeUnknown {
			segEnd = pos + h.DataSize
		}
		return nil
	}, pos)
	if err != nil {
		return FileInfo{}, err
	}

	var seeks map[uint32]uint64
	err = src.LoadAndParseAt(func(buf []byte, at int) error {
		m, err := parseSeeks(ebml.NewBuffer(buf), at)
		if err != nil {
			return err
		}
		seeks = m
		return nil
	}, pos)
	if err == nil {
		return parseViaSeeks(src, info, seeks)
	}
	return parseViaScan(src, info, pos, segEnd)
}

// parseViaSeeks resolves Info and Tracks through the seek table. Entries the
// table does not carry leave the corresponding field at its default; entries
// it does carry must parse, so errors here are fatal.
func parseViaSeeks(src ebml.Source, info FileInfo, seeks map[uint32]uint64) (FileInfo, error) {
	if pos, ok := seeks[uint32(idInfo)]; ok {
		var segInfo *SegmentInfo
		err := src.LoadAndParseAt(func(buf []byte, at int) error {
			si, err := parseSegmentInfo(ebml.NewBuffer(buf), at)
			if err != nil {
				return err
			}
			segInfo = si
			return nil
		}, int(pos))
		if err != nil {
			return FileInfo{}, err
		}
		if segInfo != nil {
			info.Info = *segInfo
		}
	}
	if pos, ok := seeks[uint32(idTracks)]; ok {
		var tracks *TracksInfo
		err := src.LoadAndParseAt(func(buf []byte, at int) error {
			ti, err := parseTracksInfo(ebml.NewBuffer(buf), at)
			if err != nil {
				return err
			}
			tracks = ti
			return nil
		}, int(pos))
		if err != nil {
			return FileInfo{}, err
		}
		if tracks != nil {
			info.Tracks = *tracks
		}
	}
	return info, nil
}

// parseViaScan locates Info and Tracks by linearly skipping the Segment's
// children from the payload start at pos. Each element gets its own
// independent scan; the format's convention puts Info before Tracks, but the
// scans do not rely on it. The scans are bounded by the Segment's declared
// payload end: reaching it cleanly means the element is absent and the field
// keeps its default, while a shortfall before that point is real missing
// input and fails the parse if the source cannot supply it.
func parseViaScan(src ebml.Source, info FileInfo, pos, segEnd int) (FileInfo, error) {
	var segInfo *SegmentInfo
	err := src.LoadAndParseAt(func(buf []byte, at int) error {
		segInfo = nil
		start, found, err := findSegmentChild(buf, at, segEnd, uint64(idInfo))
		if err != nil || !found {
			return err
		}
		si, err := parseSegmentInfo(ebml.NewBuffer(buf), start)
		if err != nil {
			return scanError(buf, segEnd, err)
		}
		segInfo = si
		return nil
	}, pos)
	if err != nil {
		return FileInfo{}, err
	}
	if segInfo != nil {
		info.Info = *segInfo
	}

	var tracks *TracksInfo
	err = src.LoadAndParseAt(func(buf []byte, at int) error {
		tracks = nil
		start, found, err := findSegmentChild(buf, at, segEnd, uint64(idTracks))
		if err != nil || !found {
			return err
		}
		ti, err := parseTracksInfo(ebml.NewBuffer(buf), start)
		if err != nil {
			return scanError(buf, segEnd, err)
		}
		tracks = ti
		return nil
	}, pos)
	if err != nil {
		return FileInfo{}, err
	}
	if tracks != nil {
		info.Tracks = *tracks
	}
	return info, nil
}

// segmentBuffered reports whether the Segment's declared payload is entirely
// in buf. segEnd < 0 means the Segment's size is unknown and the payload end
// cannot be told apart from truncation.
func segmentBuffered(buf []byte, segEnd int) bool {
	return segEnd >= 0 && segEnd <= len(buf)
}

// findSegmentChild scans the Segment's children in buf from absolute offset
// at for the given ID, returning the absolute start of the first match.
func findSegmentChild(buf []byte, at, segEnd int, id uint64) (int, bool, error) {
	limit := len(buf)
	if segmentBuffered(buf, segEnd) {
		limit = segEnd
	}
	c := ebml.NewCursor(buf[at:limit])
	h, err := ebml.FindByID(c, id)
	if err != nil {
		if _, ok := ebml.AsNeedMore(err); ok && segmentBuffered(buf, segEnd) {
			// Clean end of a fully buffered Segment: the element is absent.
			return 0, false, nil
		}
		return 0, false, err
	}
	return at + c.Pos() - h.HeaderSize, true, nil
}

// scanError classifies an extractor failure during a fallback scan. A
// shortfall inside a fully buffered Segment cannot be satisfied by more input
// (the declared sizes are inconsistent) and counts as absent; anything else
// stands.
func scanError(buf []byte, segEnd int, err error) error {
	if _, ok := ebml.AsNeedMore(err); ok && segmentBuffered(buf, segEnd) {
		return nil
	}
	return err
}
