package webm

import (
	"bufio"
	"os"

	"github.com/autobrr/go-webminfo/internal/ebml"
)

// ParseFile extracts metadata from the file at path, reading only as much of
// it as the parse actually requests.
func ParseFile(path string) (FileInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return FileInfo{}, err
	}
	defer file.Close()
	return Parse(ebml.NewReaderSource(bufio.NewReader(file)))
}

// ParseBytes extracts metadata from a fully materialized buffer.
func ParseBytes(buf []byte) (FileInfo, error) {
	return Parse(ebml.NewBytesSource(buf))
}
