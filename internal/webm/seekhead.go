package webm

import (
	"encoding/binary"
	"errors"

	"github.com/autobrr/go-webminfo/internal/ebml"
)

// errInvalidSeekEntry marks one SeekHead child that does not parse as a valid
// Seek entry. Always recoverable: the entry is skipped and scanning continues
// with the next sibling.
var errInvalidSeekEntry = errors.New("invalid seek entry")

// parseSeeks locates the SeekHead among the Segment's children starting at
// the absolute offset at (the Segment's payload start) and resolves it into a
// mapping from element ID to absolute byte offset. Seek positions are stored
// relative to the Segment payload, which is where the SeekHead itself sits,
// so absolute offsets are SeekHead start + position. An absent SeekHead
// surfaces as an error so the caller can fall back to a linear scan.
func parseSeeks(owner ebml.Buffer, at int) (map[uint32]uint64, error) {
	c := ebml.NewCursor(owner.Bytes()[at:])
	h, err := ebml.FindByID(c, uint64(idSeekHead))
	if err != nil {
		return nil, err
	}
	if h.DataSize > c.Remaining() {
		return nil, ebml.NeedMoreError{Count: h.DataSize - c.Remaining()}
	}
	headStart := at + c.Pos() - h.HeaderSize

	payload, err := c.Take(h.DataSize)
	if err != nil {
		return nil, err
	}
	body := owner.Slice(payload)
	seeks, err := parseSeekHead(ebml.NewCursor(body.Bytes()))
	if err != nil {
		return nil, err
	}
	for id := range seeks {
		seeks[id] += uint64(headStart)
	}
	return seeks, nil
}

// seekEntry is one resolved row of the seek table.
type seekEntry struct {
	id  uint32
	pos uint64
}

// parseSeekHead iterates the SeekHead payload's children. Invalid entries are
// skipped; later duplicates of the same ID overwrite earlier ones.
func parseSeekHead(c *ebml.Cursor) (map[uint32]uint64, error) {
	entries := map[uint32]uint64{}
	for c.Remaining() > 0 {
		entry, err := parseSeekEntry(c)
		if err != nil {
			if errors.Is(err, errInvalidSeekEntry) {
				continue
			}
			return nil, err
		}
		if entry == nil {
			// Void or Crc32 filler.
			continue
		}
		entries[entry.id] = entry.pos
	}
	return entries, nil
}

// parseSeekEntry decodes one child of the SeekHead. A nil entry with nil
// error means recognized filler. The child's payload is always consumed, so
// scanning can continue at the next sibling whatever the outcome.
func parseSeekEntry(c *ebml.Cursor) (*seekEntry, error) {
	seekID := uint32(ebml.InvalidID)
	var seekPos uint64

	id, _, err := c.ReadVintID()
	if err != nil {
		return nil, err
	}
	size, _, err := c.ReadVintSize()
	if err != nil {
		return nil, err
	}
	if size == ebml.UnknownSize {
		return nil, errInvalidSeekEntry
	}
	dataSize := int(size)
	if dataSize > c.Remaining() {
		return nil, ebml.NeedMoreError{Count: dataSize - c.Remaining()}
	}

	if id != uint64(idSeek) {
		if err := c.Skip(dataSize); err != nil {
			return nil, err
		}
		if id == ebml.IDVoid || id == ebml.IDCrc32 {
			return nil, nil
		}
		return nil, errInvalidSeekEntry
	}

	payload, err := c.Take(dataSize)
	if err != nil {
		return nil, err
	}
	body := ebml.NewCursor(payload)
	for body.Remaining() > 0 {
		childID, _, err := body.ReadVintID()
		if err != nil {
			return nil, err
		}
		childSize, _, err := body.ReadVintSize()
		if err != nil {
			return nil, err
		}
		switch seekHeadID(childID) {
		case idSeekID:
			// The payload is a raw element ID, itself vint-encoded with the
			// marker kept.
			raw, _, err := body.ReadVintID()
			if err != nil {
				return nil, err
			}
			seekID = uint32(raw)
		case idSeekPosition:
			switch childSize {
			case 8:
				raw, err := body.Take(8)
				if err != nil {
					return nil, err
				}
				seekPos = binary.BigEndian.Uint64(raw)
			case 4:
				raw, err := body.Take(4)
				if err != nil {
					return nil, err
				}
				seekPos = uint64(binary.BigEndian.Uint32(raw))
			default:
				return nil, errInvalidSeekEntry
			}
		default:
			return nil, errInvalidSeekEntry
		}
		if seekID != uint32(ebml.InvalidID) && seekPos != 0 {
			break
		}
	}

	if seekID == uint32(ebml.InvalidID) || seekPos == 0 {
		return nil, errInvalidSeekEntry
	}
	return &seekEntry{id: seekID, pos: seekPos}, nil
}
