package webm

import (
	"github.com/autobrr/go-webminfo/internal/ebml"
)

// parseTracksInfo decodes the Tracks element at absolute offset at and
// extracts the pixel dimensions of the first video track. It requires the
// element's whole payload to be buffered, reporting the exact shortfall
// otherwise. A nil result with nil error means no video track was found.
func parseTracksInfo(owner ebml.Buffer, at int) (*TracksInfo, error) {
	buf := owner.Bytes()
	if at >= len(buf) {
		return nil, ebml.NeedMoreError{Count: at - len(buf) + 1}
	}
	c := ebml.NewCursor(buf[at:])
	h, err := ebml.NextHeader(c)
	if err != nil {
		return nil, err
	}
	if h.ID != uint64(idTracks) {
		return nil, ebml.MalformedError{Detail: "expected Tracks, found " + headerName(h)}
	}
	if h.DataSize > c.Remaining() {
		return nil, ebml.NeedMoreError{Count: h.DataSize - c.Remaining()}
	}
	payload, err := c.Take(h.DataSize)
	if err != nil {
		return nil, err
	}
	body := owner.Slice(payload)

	info, err := parseTracks(ebml.NewCursor(body.Bytes()))
	if err != nil {
		// Payload fully buffered; a shortfall inside means inconsistent
		// declared sizes, not missing input.
		if _, ok := ebml.AsNeedMore(err); ok {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}

// parseTracks scans the Tracks payload's TrackEntry children. The first entry
// holding a Video element wins; other entries, video or not, are skipped.
func parseTracks(c *ebml.Cursor) (*TracksInfo, error) {
	for c.Remaining() > 0 {
		h, err := ebml.NextHeader(c)
		if err != nil {
			return nil, err
		}
		payload, err := c.Take(h.DataSize)
		if err != nil {
			return nil, err
		}
		if id, ok := asTracksID(h.ID); !ok || id != idTrackEntry {
			continue
		}
		entry := ebml.NewCursor(payload)
		for entry.Remaining() > 0 {
			eh, err := ebml.NextHeader(entry)
			if err != nil {
				return nil, err
			}
			sub, err := entry.Take(eh.DataSize)
			if err != nil {
				return nil, err
			}
			if id, ok := asTracksID(eh.ID); ok && id == idVideoTrack {
				return parseVideoTrack(sub)
			}
		}
	}
	return nil, nil
}

// parseVideoTrack pulls PixelWidth and PixelHeight out of a Video element
// payload. Each field is located by its own scan from the payload start: the
// height search deliberately restarts at offset zero instead of continuing
// where the width search stopped, so out-of-order encoder output still
// resolves both fields. A missing field stays zero.
func parseVideoTrack(payload []byte) (*TracksInfo, error) {
	info := &TracksInfo{}

	c := ebml.NewCursor(payload)
	if h, err := ebml.FindByID(c, uint64(idPixelWidth)); err == nil {
		if raw, err := c.Take(h.DataSize); err == nil {
			if v, ok := ebml.ReadUnsigned(raw); ok {
				info.Width = v
			}
		}
	}

	c.SetPos(0)
	if h, err := ebml.FindByID(c, uint64(idPixelHeight)); err == nil {
		if raw, err := c.Take(h.DataSize); err == nil {
			if v, ok := ebml.ReadUnsigned(raw); ok {
				info.Height = v
			}
		}
	}

	return info, nil
}
