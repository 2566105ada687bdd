package ebml

import (
	"encoding/binary"
	"errors"
	"math"
)

// Global element IDs, valid inside any parent.
const (
	IDVoid  = 0xEC
	IDCrc32 = 0xBF
)

// InvalidID is never produced by a conforming encoder; callers use it as a
// "no ID decoded yet" sentinel.
const InvalidID = 0xFF

const (
	idEBML    = 0x1A45DFA3
	idDocType = 0x4282
)

// SizeUnknown marks an element whose payload extends to the end of its
// parent. Such elements cannot be skipped over or buffered-checked.
const SizeUnknown = -1

// Header is one decoded element header.
type Header struct {
	// ID keeps the vint length marker, matching how IDs appear in the
	// Matroska registry.
	ID uint64
	// HeaderSize is the bytes consumed by the ID and size fields.
	HeaderSize int
	// DataSize is the payload length, or SizeUnknown for an unbounded
	// element.
	DataSize int
}

// NextHeader decodes the element header at the cursor, leaving the cursor at
// the start of the element payload.
func NextHeader(c *Cursor) (Header, error) {
	start := c.Pos()
	id, _, err := c.ReadVintID()
	if err != nil {
		return Header{}, err
	}
	size, _, err := c.ReadVintSize()
	if err != nil {
		return Header{}, err
	}
	h := Header{ID: id, HeaderSize: c.Pos() - start, DataSize: SizeUnknown}
	if size != UnknownSize {
		if size > math.MaxInt/2 {
			return Header{}, malformed("element 0x%x declares absurd size %d", id, size)
		}
		h.DataSize = int(size)
	}
	return h, nil
}

// TravelWhile skips sibling elements while pred holds for their headers. It
// returns the first header failing pred, with the cursor at that element's
// payload. Exhausting the input surfaces as a NeedMoreError.
func TravelWhile(c *Cursor, pred func(Header) bool) (Header, error) {
	for {
		h, err := NextHeader(c)
		if err != nil {
			return Header{}, err
		}
		if !pred(h) {
			return h, nil
		}
		if err := c.Skip(h.DataSize); err != nil {
			return Header{}, err
		}
	}
}

// FindByID skips sibling elements until one with the given ID is found.
func FindByID(c *Cursor, id uint64) (Header, error) {
	return TravelWhile(c, func(h Header) bool { return h.ID != id })
}

// ParseDocType decodes the leading EBML document-type declaration, returning
// the DocType string and leaving the cursor immediately after the
// declaration. ErrNotEBML means the input does not start with an EBML
// element at all.
func ParseDocType(c *Cursor) (string, error) {
	h, err := NextHeader(c)
	if err != nil {
		var m MalformedError
		if errors.As(err, &m) {
			return "", ErrNotEBML
		}
		return "", err
	}
	if h.ID != idEBML || h.DataSize == SizeUnknown {
		return "", ErrNotEBML
	}
	payload, err := c.Take(h.DataSize)
	if err != nil {
		return "", err
	}
	body := NewCursor(payload)
	for body.Remaining() > 0 {
		ch, err := NextHeader(body)
		if err != nil {
			return "", err
		}
		sub, err := body.Take(ch.DataSize)
		if err != nil {
			return "", err
		}
		if ch.ID == idDocType {
			return string(sub), nil
		}
	}
	return "", nil
}

// ReadUnsigned decodes an unsigned integer element payload of 1 to 8 bytes,
// big-endian.
func ReadUnsigned(payload []byte) (uint64, bool) {
	if len(payload) == 0 || len(payload) > 8 {
		return 0, false
	}
	var value uint64
	for _, b := range payload {
		value = value<<8 | uint64(b)
	}
	return value, true
}

// ReadFloat decodes a float element payload of exactly 4 or 8 bytes.
func ReadFloat(payload []byte) (float64, bool) {
	switch len(payload) {
	case 4:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(payload))), true
	case 8:
		return math.Float64frombits(binary.BigEndian.Uint64(payload)), true
	}
	return 0, false
}
