// Package version reports build information stamped at link time
package version

import "fmt"

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Set via -ldflags "-X 'eidclient/internal/core/version.version=v0.1.0'
// -X 'eidclient/internal/core/version.commit=abcd' -X 'eidclient/internal/core/version.date=2026-10-01'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for service
func Info(service string) BuildInfo {
	return BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
}

// UserAgent is sent on every outbound call to the remote service
func UserAgent() string { return fmt.Sprintf("eidclient/%s (+%s)", version, commit) }
