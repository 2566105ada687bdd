package webm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/autobrr/go-webminfo/internal/ebml"
)

func buildID(id uint64) []byte {
	var out []byte
	for id > 0 {
		out = append([]byte{byte(id)}, out...)
		id >>= 8
	}
	return out
}

func buildSize(size int) []byte {
	if size < 0x80 {
		return []byte{0x80 | byte(size)}
	}
	if size < 0x4000 {
		return []byte{0x40 | byte(size>>8), byte(size)}
	}
	return []byte{0x20 | byte(size>>16), byte(size >> 8), byte(size)}
}

func buildElement(id uint64, children ...[]byte) []byte {
	var payload []byte
	for _, ch := range children {
		payload = append(payload, ch...)
	}
	out := buildID(id)
	out = append(out, buildSize(len(payload))...)
	return append(out, payload...)
}

func encodeUint(v uint64) []byte {
	out := []byte{byte(v)}
	for v >>= 8; v > 0; v >>= 8 {
		out = append([]byte{byte(v)}, out...)
	}
	return out
}

func encodeUint64(v uint64) []byte {
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], v)
	return out[:]
}

func encodeFloat32(v float32) []byte {
	var out [4]byte
	binary.BigEndian.PutUint32(out[:], math.Float32bits(v))
	return out[:]
}

func buildFile(segmentChildren ...[]byte) []byte {
	out := buildElement(uint64(idEBML), buildElement(0x4282, []byte("webm")))
	return append(out, buildElement(uint64(idSegment), segmentChildren...)...)
}

// buildSampleInfo declares 2500 ticks at the default millisecond scale and a
// creation date one day past the format epoch.
func buildSampleInfo() []byte {
	return buildElement(uint64(idInfo),
		buildElement(uint64(idTimestampScale), encodeUint(1_000_000)),
		buildElement(uint64(idDuration), encodeFloat32(2500)),
		buildElement(uint64(idDate), encodeUint64(uint64(24*time.Hour))),
	)
}

// buildSampleTracks puts an audio entry first so the video lookup has to scan
// past it.
func buildSampleTracks() []byte {
	return buildElement(uint64(idTracks),
		buildElement(uint64(idTrackEntry),
			buildElement(uint64(idTrackType), []byte{2}),
		),
		buildElement(uint64(idTrackEntry),
			buildElement(uint64(idTrackType), []byte{1}),
			buildElement(uint64(idVideoTrack),
				buildElement(uint64(idPixelWidth), encodeUint(1920)),
				buildElement(uint64(idPixelHeight), encodeUint(1080)),
			),
		),
	)
}

func buildSeek(target uint64, pos uint32) []byte {
	var p [4]byte
	binary.BigEndian.PutUint32(p[:], pos)
	return buildElement(uint64(idSeek),
		buildElement(uint64(idSeekID), buildID(target)),
		buildElement(uint64(idSeekPosition), p[:]),
	)
}

// buildSeekHeadFile assembles EBML header + Segment whose first child is a
// SeekHead addressing Info and Tracks. Positions are relative to the Segment
// payload and always 4 bytes wide, so the SeekHead's own length is stable and
// the positions can be computed in a second pass.
func buildSeekHeadFile(info, tracks []byte, extraSeeks ...[]byte) []byte {
	mk := func(infoPos, tracksPos uint32) []byte {
		children := [][]byte{buildSeek(uint64(idInfo), infoPos)}
		children = append(children, extraSeeks...)
		children = append(children, buildSeek(uint64(idTracks), tracksPos))
		return buildElement(uint64(idSeekHead), children...)
	}
	infoPos := uint32(len(mk(0, 1)))
	sh := mk(infoPos, infoPos+uint32(len(info)))
	return buildFile(sh, info, tracks)
}

func checkSampleInfo(t *testing.T, got FileInfo) {
	t.Helper()
	if got.DocType != "webm" {
		t.Fatalf("DocType = %q, want webm", got.DocType)
	}
	if got.Info.DurationNs != 2.5e9 {
		t.Fatalf("DurationNs = %v, want 2.5e9", got.Info.DurationNs)
	}
	wantDate := time.Date(2001, time.January, 2, 0, 0, 0, 0, time.UTC)
	if !got.Info.CreationDate.Equal(wantDate) {
		t.Fatalf("CreationDate = %v, want %v", got.Info.CreationDate, wantDate)
	}
	if got.Tracks.Width != 1920 || got.Tracks.Height != 1080 {
		t.Fatalf("Tracks = %+v, want 1920x1080", got.Tracks)
	}
}

func TestParseWithSeekHead(t *testing.T) {
	file := buildSeekHeadFile(buildSampleInfo(), buildSampleTracks())

	got, err := Parse(ebml.NewBytesSource(file))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	checkSampleInfo(t, got)

	got, err = Parse(ebml.NewReaderSource(bytes.NewReader(file)))
	if err != nil {
		t.Fatalf("Parse via reader: %v", err)
	}
	checkSampleInfo(t, got)
}

func TestParseFallbackScan(t *testing.T) {
	// No SeekHead; a Void child sits in front of Info.
	file := buildFile(
		buildElement(ebml.IDVoid, make([]byte, 9)),
		buildSampleInfo(),
		buildSampleTracks(),
		buildElement(uint64(idCluster), make([]byte, 16)),
	)
	got, err := Parse(ebml.NewBytesSource(file))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	checkSampleInfo(t, got)
}

func TestSeekHeadAndScanAgree(t *testing.T) {
	info, tracks := buildSampleInfo(), buildSampleTracks()
	withSeeks, err := Parse(ebml.NewBytesSource(buildSeekHeadFile(info, tracks)))
	if err != nil {
		t.Fatalf("Parse with SeekHead: %v", err)
	}
	scanned, err := Parse(ebml.NewBytesSource(buildFile(info, tracks)))
	if err != nil {
		t.Fatalf("Parse by scan: %v", err)
	}
	if withSeeks != scanned {
		t.Fatalf("seek path %+v, scan path %+v", withSeeks, scanned)
	}
}

// feedSource starts with a prefix of the data and satisfies each shortfall
// with exactly the requested byte count, verifying that reported shortfalls
// converge instead of overshooting or looping.
type feedSource struct {
	data []byte
	have int
}

func (s *feedSource) LoadAndParse(parse func(buf []byte) error) error {
	return s.LoadAndParseAt(func(buf []byte, _ int) error { return parse(buf) }, 0)
}

func (s *feedSource) LoadAndParseAt(parse func(buf []byte, at int) error, at int) error {
	for {
		err := parse(s.data[:s.have], at)
		need, ok := ebml.AsNeedMore(err)
		if !ok {
			return err
		}
		if s.have+need.Count > len(s.data) {
			return err
		}
		s.have += need.Count
	}
}

func TestParseTruncatedPrefixes(t *testing.T) {
	files := map[string][]byte{
		"seekhead": buildSeekHeadFile(buildSampleInfo(), buildSampleTracks()),
		"scan":     buildFile(buildSampleInfo(), buildSampleTracks()),
	}
	for name, file := range files {
		for prefix := 0; prefix <= len(file); prefix++ {
			got, err := Parse(&feedSource{data: file, have: prefix})
			if err != nil {
				t.Fatalf("%s prefix %d: %v", name, prefix, err)
			}
			checkSampleInfo(t, got)
		}
	}
}

func TestParseTruncatedFixedSource(t *testing.T) {
	// A fixed-size source cannot satisfy a shortfall. Truncation must surface
	// as the missing byte count, never as a success with default fields.
	full := buildFile(buildSampleInfo(), buildSampleTracks())
	cut := full[:len(full)-5]

	_, err := Parse(ebml.NewBytesSource(cut))
	need, ok := ebml.AsNeedMore(err)
	if !ok || need.Count != 5 {
		t.Fatalf("truncated fallback parse: %v, want need 5", err)
	}

	withSeeks := buildSeekHeadFile(buildSampleInfo(), buildSampleTracks())
	_, err = Parse(ebml.NewBytesSource(withSeeks[:len(withSeeks)-5]))
	if _, ok := ebml.AsNeedMore(err); !ok {
		t.Fatalf("truncated seek-table parse: %v, want a shortfall", err)
	}
}

func TestParseCorruptSeekEntryInMiddle(t *testing.T) {
	// A Seek whose SeekPosition is 3 bytes wide, wedged between the two valid
	// entries. It must be skipped without derailing its siblings.
	corrupt := buildElement(uint64(idSeek),
		buildElement(uint64(idSeekID), buildID(uint64(idCues))),
		buildElement(uint64(idSeekPosition), []byte{0, 0, 1}),
	)
	file := buildSeekHeadFile(buildSampleInfo(), buildSampleTracks(), corrupt)
	got, err := Parse(ebml.NewBytesSource(file))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	checkSampleInfo(t, got)
}

func TestParseSeekTableWithoutTracksEntry(t *testing.T) {
	info := buildSampleInfo()
	mk := func(pos uint32) []byte {
		return buildElement(uint64(idSeekHead), buildSeek(uint64(idInfo), pos))
	}
	sh := mk(uint32(len(mk(0))))
	file := buildFile(sh, info, buildSampleTracks())

	got, err := Parse(ebml.NewBytesSource(file))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Info.DurationNs != 2.5e9 {
		t.Fatalf("DurationNs = %v, want 2.5e9", got.Info.DurationNs)
	}
	if got.Tracks != (TracksInfo{}) {
		t.Fatalf("Tracks = %+v, want defaults for an unlisted element", got.Tracks)
	}
}

func TestParseDefaultTimestampScale(t *testing.T) {
	info := buildElement(uint64(idInfo),
		buildElement(uint64(idDuration), encodeFloat32(2500)),
	)
	got, err := Parse(ebml.NewBytesSource(buildFile(info)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Info.DurationNs != 2500*1e6 {
		t.Fatalf("DurationNs = %v, want ticks scaled by the default", got.Info.DurationNs)
	}
}

func TestParseScaleDeclaredAfterDuration(t *testing.T) {
	// Duration is scaled with whatever scale is in effect when it appears; a
	// later TimestampScale does not reach back.
	info := buildElement(uint64(idInfo),
		buildElement(uint64(idDuration), encodeFloat32(2500)),
		buildElement(uint64(idTimestampScale), encodeUint(5_000_000)),
	)
	got, err := Parse(ebml.NewBytesSource(buildFile(info)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Info.DurationNs != 2500*1e6 {
		t.Fatalf("DurationNs = %v, want the default-scaled value", got.Info.DurationNs)
	}
}

func TestParseDateEpochZero(t *testing.T) {
	info := buildElement(uint64(idInfo),
		buildElement(uint64(idDate), encodeUint64(0)),
	)
	got, err := Parse(ebml.NewBytesSource(buildFile(info)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !got.Info.CreationDate.Equal(matroskaEpoch) {
		t.Fatalf("CreationDate = %v, want the 2001-01-01 epoch", got.Info.CreationDate)
	}
}

func TestParseAudioOnlyTracks(t *testing.T) {
	tracks := buildElement(uint64(idTracks),
		buildElement(uint64(idTrackEntry), buildElement(uint64(idTrackType), []byte{2})),
		buildElement(uint64(idTrackEntry), buildElement(uint64(idTrackType), []byte{2})),
	)
	got, err := Parse(ebml.NewBytesSource(buildFile(buildSampleInfo(), tracks)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Tracks != (TracksInfo{}) {
		t.Fatalf("Tracks = %+v, want zero dimensions", got.Tracks)
	}
}

func TestParseEmptySegment(t *testing.T) {
	file := buildFile(buildElement(ebml.IDVoid, make([]byte, 4)))
	got, err := Parse(ebml.NewBytesSource(file))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := FileInfo{DocType: "webm"}
	if got != want {
		t.Fatalf("got %+v, want defaults", got)
	}
}

func TestParseNotWebm(t *testing.T) {
	if _, err := Parse(ebml.NewBytesSource([]byte("RIFF\x24\x00\x00\x00WAVE"))); !errors.Is(err, ErrNotWebm) {
		t.Fatalf("foreign magic: %v, want ErrNotWebm", err)
	}

	// Valid EBML header, but the next top-level element is not a Segment.
	file := buildElement(uint64(idEBML), buildElement(0x4282, []byte("webm")))
	file = append(file, buildElement(ebml.IDVoid, make([]byte, 4))...)
	if _, err := Parse(ebml.NewBytesSource(file)); !errors.Is(err, ErrNotWebm) {
		t.Fatalf("missing segment: %v, want ErrNotWebm", err)
	}
}
