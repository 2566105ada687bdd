package webm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.webm")
	file := buildSeekHeadFile(buildSampleInfo(), buildSampleTracks())
	if err := os.WriteFile(path, file, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	checkSampleInfo(t, got)
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.webm")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestParseBytesNotWebm(t *testing.T) {
	if _, err := ParseBytes([]byte("ID3\x04\x00")); !errors.Is(err, ErrNotWebm) {
		t.Fatalf("ParseBytes: %v, want ErrNotWebm", err)
	}
}
