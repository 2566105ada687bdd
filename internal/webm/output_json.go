package webm

import (
	"encoding/json"
	"time"
)

type jsonTrack struct {
	Width  uint64 `json:"Width,omitempty"`
	Height uint64 `json:"Height,omitempty"`
}

type jsonReport struct {
	Ref         string    `json:"CompleteName,omitempty"`
	Format      string    `json:"Format,omitempty"`
	DurationNs  float64   `json:"Duration_Ns,omitempty"`
	EncodedDate string    `json:"Encoded_Date,omitempty"`
	Video       jsonTrack `json:"Video"`
}

type jsonEnvelope struct {
	CreatingApplication string       `json:"creatingApplication"`
	Version             string       `json:"version"`
	Media               []jsonReport `json:"media"`
}

// RenderJSON renders reports as a single JSON document.
func RenderJSON(reports []Report) string {
	envelope := jsonEnvelope{
		CreatingApplication: AppName,
		Version:             FormatVersion(AppVersion),
	}
	for _, report := range reports {
		out := jsonReport{
			Ref:        report.Ref,
			Format:     report.Info.DocType,
			DurationNs: report.Info.Info.DurationNs,
			Video: jsonTrack{
				Width:  report.Info.Tracks.Width,
				Height: report.Info.Tracks.Height,
			},
		}
		if !report.Info.Info.CreationDate.IsZero() {
			out.EncodedDate = report.Info.Info.CreationDate.UTC().Format(time.RFC3339Nano)
		}
		envelope.Media = append(envelope.Media, out)
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return ""
	}
	return string(data) + "\n"
}
