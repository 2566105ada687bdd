package ebml

// Cursor walks a byte buffer without copying it. Every read reports the exact
// byte shortfall via NeedMoreError, so a caller holding a growing buffer can
// fetch more input and re-run the whole step at the same offsets.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) SetPos(pos int) {
	c.pos = pos
}

func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Peek returns the unread remainder without consuming it. The returned slice
// aliases the cursor's buffer.
func (c *Cursor) Peek() []byte {
	return c.buf[c.pos:]
}

// Skip consumes n bytes. n must be a concrete element size; SizeUnknown
// cannot be skipped.
func (c *Cursor) Skip(n int) error {
	if n < 0 {
		return malformed("cannot skip element of unknown size")
	}
	if n > c.Remaining() {
		return needMore(n - c.Remaining())
	}
	c.pos += n
	return nil
}

// Take consumes n bytes and returns them as a sub-slice of the buffer.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 {
		return nil, malformed("cannot read element of unknown size")
	}
	if n > c.Remaining() {
		return nil, needMore(n - c.Remaining())
	}
	out := c.buf[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}

// UnknownSize is the decoded value of a size vint with all value bits set,
// meaning the element extends to the end of its parent.
const UnknownSize = ^uint64(0)

// ReadVintID decodes a variable-length integer keeping the length marker,
// the encoding used for element IDs (and for SeekID payloads).
func (c *Cursor) ReadVintID() (uint64, int, error) {
	if c.pos >= len(c.buf) {
		return 0, 0, needMore(1)
	}
	first := c.buf[c.pos]
	length := vintLength(first)
	if length == 0 {
		return 0, 0, malformed("invalid vint marker 0x%02x", first)
	}
	if length > c.Remaining() {
		return 0, 0, needMore(length - c.Remaining())
	}
	var value uint64
	for i := 0; i < length; i++ {
		value = value<<8 | uint64(c.buf[c.pos+i])
	}
	c.pos += length
	return value, length, nil
}

// ReadVintSize decodes a variable-length integer with the length marker
// stripped, the encoding used for element sizes. An all-ones value decodes to
// UnknownSize.
func (c *Cursor) ReadVintSize() (uint64, int, error) {
	if c.pos >= len(c.buf) {
		return 0, 0, needMore(1)
	}
	first := c.buf[c.pos]
	length := vintLength(first)
	if length == 0 {
		return 0, 0, malformed("invalid vint marker 0x%02x", first)
	}
	if length > c.Remaining() {
		return 0, 0, needMore(length - c.Remaining())
	}
	mask := byte(0xFF >> length)
	value := uint64(first & mask)
	for i := 1; i < length; i++ {
		value = value<<8 | uint64(c.buf[c.pos+i])
	}
	c.pos += length
	if value == uint64(1)<<(uint(length)*7)-1 {
		return UnknownSize, length, nil
	}
	return value, length, nil
}

func vintLength(first byte) int {
	for i := 0; i < 8; i++ {
		if first&(1<<(7-uint(i))) != 0 {
			return i + 1
		}
	}
	return 0
}
