package ebml

import (
	"errors"
	"io"
)

// Source supplies buffered bytes to parsing closures and satisfies their
// NeedMoreError signals by growing the buffer. The buffer only ever grows by
// appending, never by shifting, so offsets computed against a shorter buffer
// stay valid across retries. Parsing closures must be idempotent: a retry
// re-runs the whole step against the larger buffer.
type Source interface {
	// LoadAndParse invokes parse with the buffered bytes, fetching more and
	// retrying whenever parse reports a NeedMoreError the source can
	// satisfy. Any other error, or nil, is final.
	LoadAndParse(parse func(buf []byte) error) error
	// LoadAndParseAt is LoadAndParse for steps anchored at a known absolute
	// offset.
	LoadAndParseAt(parse func(buf []byte, at int) error, at int) error
}

const readChunk = 64 * 1024

// ReaderSource grows its buffer from an io.Reader on demand. Once the reader
// is exhausted, an unsatisfiable NeedMoreError is returned to the caller
// as-is.
type ReaderSource struct {
	r   io.Reader
	buf []byte
	eof bool
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

func (s *ReaderSource) LoadAndParse(parse func(buf []byte) error) error {
	return s.LoadAndParseAt(func(buf []byte, _ int) error { return parse(buf) }, 0)
}

func (s *ReaderSource) LoadAndParseAt(parse func(buf []byte, at int) error, at int) error {
	for {
		err := parse(s.buf, at)
		need, ok := AsNeedMore(err)
		if !ok {
			return err
		}
		if fetchErr := s.fetch(need.Count); fetchErr != nil {
			if errors.Is(fetchErr, io.EOF) || errors.Is(fetchErr, io.ErrUnexpectedEOF) {
				return err
			}
			return fetchErr
		}
	}
}

// fetch appends at least n bytes to the buffer.
func (s *ReaderSource) fetch(n int) error {
	if s.eof {
		return io.EOF
	}
	grow := n
	if grow < readChunk {
		grow = readChunk
	}
	off := len(s.buf)
	s.buf = append(s.buf, make([]byte, grow)...)
	read, err := io.ReadAtLeast(s.r, s.buf[off:], n)
	s.buf = s.buf[:off+read]
	if err != nil {
		s.eof = true
		return err
	}
	return nil
}

// BytesSource serves a fixed, fully materialized buffer. A NeedMoreError
// cannot be satisfied and is returned to the caller as-is.
type BytesSource struct {
	buf []byte
}

func NewBytesSource(buf []byte) *BytesSource {
	return &BytesSource{buf: buf}
}

func (s *BytesSource) LoadAndParse(parse func(buf []byte) error) error {
	return parse(s.buf)
}

func (s *BytesSource) LoadAndParseAt(parse func(buf []byte, at int) error, at int) error {
	return parse(s.buf, at)
}
