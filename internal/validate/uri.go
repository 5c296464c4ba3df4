package validate

import (
	"net/url"
	"strings"
)

// AbsoluteURIOrURN reports whether s is an absolute URL or a urn: URI,
// the shape required of schema URIs (spec §3) and reference-typed
// attribute values (spec §4.B).
func AbsoluteURIOrURN(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "urn:") {
		return len(s) > len("urn:")
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Host != ""
}
