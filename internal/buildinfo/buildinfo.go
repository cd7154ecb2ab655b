// Package buildinfo carries the build identity stamped into the binary.
package buildinfo

// Set at build time, e.g.:
//
//	go build -ldflags "\
//	  -X 'github.com/chartak/orderbot/internal/buildinfo.Version=v0.3.0' \
//	  -X 'github.com/chartak/orderbot/internal/buildinfo.Commit=abcdef0' \
//	  -X 'github.com/chartak/orderbot/internal/buildinfo.Date=2026-08-31T12:00:00Z'"
//
// An unstamped binary reports the dev defaults, which is what the
// startup log line shows when running from source.
var (
	// Version is the release tag of the build.
	Version = "dev"
	// Commit is the source revision of the build.
	Commit = "local"
	// Date is the build timestamp in RFC3339.
	Date = ""
)
