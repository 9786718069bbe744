// Package buildinfo holds build-time metadata injected via ldflags.
// It is kept apart from user configuration on purpose.
package buildinfo

// Set at build time with:
//
//	go build -ldflags "-X github.com/calmtrack/calmtrack-go/internal/buildinfo.Version=v1.2.0"
var (
	Version   = "dev"
	BuildDate = "unknown"
)
