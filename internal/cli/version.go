package cli

import (
	"fmt"
	"io"

	"github.com/autobrr/go-webminfo/internal/webm"
)

var appVersion = "dev"

func SetVersion(version string) {
	if version != "" {
		appVersion = version
	}
}

func Version(stdout io.Writer) {
	fmt.Fprintf(stdout, "go-webminfo, %s\n", webm.FormatVersion(appVersion))
}
