package webm

import (
	"bytes"
	"fmt"
	"strings"
)

// RenderText renders reports in an aligned name-colon-value layout.
func RenderText(reports []Report) string {
	var buf bytes.Buffer
	for i, report := range reports {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString("General\n")
		for _, field := range reportFields(report) {
			buf.WriteString(padRight(field.Name, 24))
			buf.WriteString(": ")
			buf.WriteString(field.Value)
			buf.WriteString("\n")
		}
	}
	buf.WriteString("\n")
	buf.WriteString(reportByLine())
	return buf.String() + "\n"
}

func reportByLine() string {
	return fmt.Sprintf("ReportBy : %s - %s", AppName, FormatVersion(AppVersion))
}

func reportFields(report Report) []Field {
	fields := []Field{}
	if report.Ref != "" {
		fields = append(fields, Field{Name: "Complete name", Value: report.Ref})
	}
	if report.Info.DocType != "" {
		fields = append(fields, Field{Name: "Format", Value: report.Info.DocType})
	}
	if report.Info.Info.DurationNs > 0 {
		fields = append(fields, Field{Name: "Duration", Value: formatDuration(report.Info.Info.DurationNs / 1e9)})
	}
	if !report.Info.Info.CreationDate.IsZero() {
		fields = append(fields, Field{Name: "Encoded date", Value: report.Info.Info.CreationDate.UTC().Format("2006-01-02 15:04:05 UTC")})
	}
	if report.Info.Tracks.Width > 0 {
		fields = append(fields, Field{Name: "Width", Value: formatPixels(report.Info.Tracks.Width)})
	}
	if report.Info.Tracks.Height > 0 {
		fields = append(fields, Field{Name: "Height", Value: formatPixels(report.Info.Tracks.Height)})
	}
	return fields
}

func padRight(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-len(value))
}
