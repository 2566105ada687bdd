package webm

import (
	"time"

	"github.com/autobrr/go-webminfo/internal/ebml"
)

// defaultTimestampScale is the tick-to-nanosecond multiplier used when no
// TimestampScale element is present: one segment tick is one millisecond.
const defaultTimestampScale = 1_000_000

// parseSegmentInfo decodes the Info element at absolute offset at. It
// requires the element's whole payload to be buffered, reporting the exact
// shortfall otherwise. A nil result with nil error means the payload was
// buffered but did not yield usable fields; the caller keeps its defaults.
func parseSegmentInfo(owner ebml.Buffer, at int) (*SegmentInfo, error) {
	buf := owner.Bytes()
	if at >= len(buf) {
		return nil, ebml.NeedMoreError{Count: at - len(buf) + 1}
	}
	c := ebml.NewCursor(buf[at:])
	h, err := ebml.NextHeader(c)
	if err != nil {
		return nil, err
	}
	if h.ID != uint64(idInfo) {
		return nil, ebml.MalformedError{Detail: "expected Info, found " + headerName(h)}
	}
	if h.DataSize > c.Remaining() {
		return nil, ebml.NeedMoreError{Count: h.DataSize - c.Remaining()}
	}
	payload, err := c.Take(h.DataSize)
	if err != nil {
		return nil, err
	}
	body := owner.Slice(payload)

	info, err := parseSegmentInfoBody(ebml.NewCursor(body.Bytes()))
	if err != nil {
		// The whole payload is buffered, so a shortfall inside it means the
		// declared child sizes are inconsistent; there is nothing more to
		// fetch.
		if _, ok := ebml.AsNeedMore(err); ok {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}

// parseSegmentInfoBody walks the Info payload's children in a single forward
// pass. Duration is scaled by whatever timestamp scale has been seen at the
// point it appears; unrecognized children are skipped, and a child whose
// value fails to decode keeps the previous value.
func parseSegmentInfoBody(c *ebml.Cursor) (*SegmentInfo, error) {
	scale := uint64(defaultTimestampScale)
	info := &SegmentInfo{}

	for c.Remaining() > 0 {
		h, err := ebml.NextHeader(c)
		if err != nil {
			return nil, err
		}
		payload, err := c.Take(h.DataSize)
		if err != nil {
			return nil, err
		}
		id, ok := asInfoID(h.ID)
		if !ok {
			continue
		}
		switch id {
		case idTimestampScale:
			if v, ok := ebml.ReadUnsigned(payload); ok {
				scale = v
			}
		case idDuration:
			if v, ok := ebml.ReadFloat(payload); ok {
				info.DurationNs = v * float64(scale)
			}
		case idDate:
			// Nanoseconds since 2001-01-01T00:00:00Z, signed.
			if v, ok := ebml.ReadUnsigned(payload); ok {
				info.CreationDate = matroskaEpoch.Add(time.Duration(int64(v)))
			}
		}
	}
	return info, nil
}
