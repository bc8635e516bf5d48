// Package endpoint parses the configured service URL and resolves its protocol generation
package endpoint

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	perr "eidclient/internal/platform/errors"
)

// Supported protocol generations
const (
	VersionLegacy = 4
	VersionREST   = 5
)

// versionSegment matches a whole path segment such as "5" or "v5"
var versionSegment = regexp.MustCompile(`^v?(\d+)$`)

// Descriptor is the parsed, immutable endpoint
type Descriptor struct {
	Raw     string
	URL     *url.URL
	Version int
}

// Parse validates raw as an absolute http(s) URL and resolves its version
func Parse(raw string) (Descriptor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Descriptor{}, perr.Configf("endpoint is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Descriptor{}, perr.Wrap(err, perr.ErrorCodeConfiguration, "endpoint is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return Descriptor{}, perr.Configf("endpoint %q must be an absolute http(s) URL", raw)
	}
	v, err := Resolve(u.Path)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Raw: raw, URL: u, Version: v}, nil
}

// Resolve extracts the protocol version from a URL path
// The last version-looking segment wins; only 4 and 5 are supported
func Resolve(path string) (int, error) {
	found := ""
	for seg := range strings.SplitSeq(path, "/") {
		if m := versionSegment.FindStringSubmatch(seg); m != nil {
			found = m[1]
		}
	}
	if found == "" {
		return 0, perr.Configf("endpoint path %q carries no version segment", path)
	}
	v, err := strconv.Atoi(found)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeConfiguration, "endpoint version out of range")
	}
	if v != VersionLegacy && v != VersionREST {
		return 0, perr.Configf("endpoint version %d is not supported", v)
	}
	return v, nil
}

// Join returns the endpoint URL with op appended as a final path segment
// Query and fragment stay where they were configured
func (d Descriptor) Join(op string) string {
	u := *d.URL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + op
	u.RawPath = ""
	return u.String()
}

// String returns the endpoint as configured
func (d Descriptor) String() string { return d.Raw }
