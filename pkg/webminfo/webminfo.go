// Package webminfo is the supported public surface of go-webminfo.
package webminfo

import (
	"io"

	"github.com/autobrr/go-webminfo/internal/ebml"
	"github.com/autobrr/go-webminfo/internal/webm"
)

// Types
type FileInfo = webm.FileInfo
type SegmentInfo = webm.SegmentInfo
type TracksInfo = webm.TracksInfo
type Report = webm.Report
type NeedMoreError = ebml.NeedMoreError

// Errors
var ErrNotWebm = webm.ErrNotWebm

// Functions
func ParseFile(path string) (FileInfo, error) {
	return webm.ParseFile(path)
}

func ParseBytes(buf []byte) (FileInfo, error) {
	return webm.ParseBytes(buf)
}

// ParseReader parses from r, reading only as much input as the parse
// requests.
func ParseReader(r io.Reader) (FileInfo, error) {
	return webm.Parse(ebml.NewReaderSource(r))
}

// Rendering
func RenderText(reports []Report) string {
	return webm.RenderText(reports)
}

func RenderJSON(reports []Report) string {
	return webm.RenderJSON(reports)
}

func FormatVersion(version string) string {
	return webm.FormatVersion(version)
}

func SetAppVersion(version string) {
	webm.SetAppVersion(version)
}
