package ebml

import (
	"bytes"
	"testing"
)

func TestReaderSourceGrowsByAppending(t *testing.T) {
	data := make([]byte, 3*readChunk)
	for i := range data {
		data[i] = byte(i)
	}
	src := NewReaderSource(bytes.NewReader(data))

	want := 2*readChunk + 100
	calls := 0
	err := src.LoadAndParse(func(buf []byte) error {
		calls++
		if !bytes.Equal(buf, data[:len(buf)]) {
			t.Fatal("buffer is not a prefix of the input")
		}
		if len(buf) < want {
			return needMore(want - len(buf))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("LoadAndParse: %v", err)
	}
	if calls < 2 {
		t.Fatalf("parse ran %d times, expected retries", calls)
	}
}

func TestReaderSourceExhausted(t *testing.T) {
	src := NewReaderSource(bytes.NewReader(make([]byte, 10)))
	err := src.LoadAndParse(func(buf []byte) error {
		if len(buf) < 20 {
			return needMore(20 - len(buf))
		}
		return nil
	})
	if !needs(err, 10) {
		t.Fatalf("exhausted source: %v, want the final shortfall", err)
	}
}

func TestReaderSourceAnchoredOffset(t *testing.T) {
	src := NewReaderSource(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	err := src.LoadAndParseAt(func(buf []byte, at int) error {
		if at != 3 {
			t.Fatalf("at = %d, want 3", at)
		}
		if len(buf) <= at {
			return needMore(at - len(buf) + 1)
		}
		if buf[at] != 4 {
			t.Fatalf("buf[at] = %d, want 4", buf[at])
		}
		return nil
	}, 3)
	if err != nil {
		t.Fatalf("LoadAndParseAt: %v", err)
	}
}

func TestBytesSourceSingleShot(t *testing.T) {
	src := NewBytesSource([]byte{1, 2})
	calls := 0
	err := src.LoadAndParse(func(buf []byte) error {
		calls++
		return needMore(5)
	})
	if !needs(err, 5) || calls != 1 {
		t.Fatalf("err = %v after %d calls, want one call and need 5", err, calls)
	}
}
