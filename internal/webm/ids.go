package webm

import (
	"fmt"

	"github.com/autobrr/go-webminfo/internal/ebml"
)

// Wire-format element IDs, fixed by the Matroska registry. Conversions from
// raw IDs are fallible and never panic; an unrecognized ID simply reports
// false.

type topID uint64

const (
	idEBML    topID = 0x1A45DFA3
	idSegment topID = 0x18538067
)

func asTopID(v uint64) (topID, bool) {
	switch topID(v) {
	case idEBML, idSegment:
		return topID(v), true
	}
	return 0, false
}

type segmentID uint64

const (
	idSeekHead segmentID = 0x114D9B74
	idInfo     segmentID = 0x1549A966
	idTracks   segmentID = 0x1654AE6B
	idCluster  segmentID = 0x1F43B675
	idCues     segmentID = 0x1C53BB6B
)

type infoID uint64

const (
	idTimestampScale infoID = 0x2AD7B1
	idDuration       infoID = 0x4489
	idDate           infoID = 0x4461
)

func asInfoID(v uint64) (infoID, bool) {
	switch infoID(v) {
	case idTimestampScale, idDuration, idDate:
		return infoID(v), true
	}
	return 0, false
}

type tracksID uint64

const (
	idTrackEntry  tracksID = 0xAE
	idTrackType   tracksID = 0x83
	idVideoTrack  tracksID = 0xE0
	idPixelWidth  tracksID = 0xB0
	idPixelHeight tracksID = 0xBA
)

func asTracksID(v uint64) (tracksID, bool) {
	switch tracksID(v) {
	case idTrackEntry, idTrackType, idVideoTrack, idPixelWidth, idPixelHeight:
		return tracksID(v), true
	}
	return 0, false
}

type seekHeadID uint64

const (
	idSeek         seekHeadID = 0x4DBB
	idSeekID       seekHeadID = 0x53AB
	idSeekPosition seekHeadID = 0x53AC
)

// idName resolves an element ID to its registry name, falling back to hex.
// Used in error details and debug strings.
func idName(v uint64) string {
	switch {
	case v == uint64(idEBML):
		return "EBML"
	case v == uint64(idSegment):
		return "Segment"
	case v == uint64(idSeekHead):
		return "SeekHead"
	case v == uint64(idInfo):
		return "Info"
	case v == uint64(idTracks):
		return "Tracks"
	case v == uint64(idCluster):
		return "Cluster"
	case v == uint64(idCues):
		return "Cues"
	case v == uint64(idTimestampScale):
		return "TimestampScale"
	case v == uint64(idDuration):
		return "Duration"
	case v == uint64(idDate):
		return "Date"
	case v == uint64(idTrackEntry):
		return "TrackEntry"
	case v == uint64(idTrackType):
		return "TrackType"
	case v == uint64(idVideoTrack):
		return "Video"
	case v == uint64(idPixelWidth):
		return "PixelWidth"
	case v == uint64(idPixelHeight):
		return "PixelHeight"
	case v == uint64(idSeek):
		return "Seek"
	case v == uint64(idSeekID):
		return "SeekID"
	case v == uint64(idSeekPosition):
		return "SeekPosition"
	case v == ebml.IDVoid:
		return "Void"
	case v == ebml.IDCrc32:
		return "Crc32"
	}
	return fmt.Sprintf("0x%04X", v)
}

// headerName renders a decoded header for error details.
func headerName(h ebml.Header) string {
	return fmt.Sprintf("%s (size %d)", idName(h.ID), h.DataSize)
}
