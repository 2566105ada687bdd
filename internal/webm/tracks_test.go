package webm

import (
	"errors"
	"testing"

	"github.com/autobrr/go-webminfo/internal/ebml"
)

func TestParseVideoTrackOutOfOrderFields(t *testing.T) {
	// PixelHeight ahead of PixelWidth; each field gets its own scan from the
	// payload start, so declaration order must not matter.
	payload := append(
		buildElement(uint64(idPixelHeight), encodeUint(1080)),
		buildElement(uint64(idPixelWidth), encodeUint(1920))...,
	)
	info, err := parseVideoTrack(payload)
	if err != nil {
		t.Fatalf("parseVideoTrack: %v", err)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Fatalf("dimensions = %+v, want 1920x1080", info)
	}
}

func TestParseVideoTrackMissingField(t *testing.T) {
	payload := buildElement(uint64(idPixelWidth), encodeUint(640))
	info, err := parseVideoTrack(payload)
	if err != nil {
		t.Fatalf("parseVideoTrack: %v", err)
	}
	if info.Width != 640 || info.Height != 0 {
		t.Fatalf("dimensions = %+v, want width only", info)
	}
}

func TestParseTracksFirstVideoEntryWins(t *testing.T) {
	payload := buildElement(uint64(idTracks),
		buildElement(uint64(idTrackEntry),
			buildElement(uint64(idVideoTrack),
				buildElement(uint64(idPixelWidth), encodeUint(320)),
				buildElement(uint64(idPixelHeight), encodeUint(240)),
			),
		),
		buildElement(uint64(idTrackEntry),
			buildElement(uint64(idVideoTrack),
				buildElement(uint64(idPixelWidth), encodeUint(1920)),
				buildElement(uint64(idPixelHeight), encodeUint(1080)),
			),
		),
	)
	info, err := parseTracksInfo(ebml.NewBuffer(payload), 0)
	if err != nil {
		t.Fatalf("parseTracksInfo: %v", err)
	}
	if info == nil || info.Width != 320 || info.Height != 240 {
		t.Fatalf("dimensions = %+v, want the first video entry", info)
	}
}

func TestParseTracksInfoShortfall(t *testing.T) {
	payload := buildElement(uint64(idTracks),
		buildElement(uint64(idTrackEntry),
			buildElement(uint64(idVideoTrack),
				buildElement(uint64(idPixelWidth), encodeUint(1920)),
			),
		),
	)
	cut := len(payload) - 3
	_, err := parseTracksInfo(ebml.NewBuffer(payload[:cut]), 0)
	need, ok := ebml.AsNeedMore(err)
	if !ok || need.Count != 3 {
		t.Fatalf("truncated payload: %v, want need 3", err)
	}
}

func TestParseTracksInfoWrongElement(t *testing.T) {
	payload := buildElement(uint64(idInfo))
	var m ebml.MalformedError
	if _, err := parseTracksInfo(ebml.NewBuffer(payload), 0); !errors.As(err, &m) {
		t.Fatalf("wrong element: %v, want MalformedError", err)
	}
}
