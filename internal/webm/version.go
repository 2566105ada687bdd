package webm

const (
	AppName = "go-webminfo"
	AppURL  = "https://github.com/autobrr/go-webminfo"
)

var AppVersion = "dev"

func SetAppVersion(version string) {
	if version != "" {
		AppVersion = version
	}
}

// FormatVersion renders a version string for reports and banners.
func FormatVersion(version string) string {
	if version == "" || version == "dev" {
		return "Version dev"
	}
	return "Version " + version
}
