// Package version implements content-hash version derivation, HTTP ETag
// encoding, and conditional-operation primitives (spec §4.E).
package version

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"
)

// tokenLength is the number of hash bytes encoded into the raw version
// token — enough to be collision-resistant in practice for the set of
// resources a single tenant holds, while staying short and printable.
const tokenLength = 10

var tokenEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// RawVersion is the short, opaque, content-derived version token (spec §3
// "Version (RawVersion)").
type RawVersion struct {
	value string
}

// FromContent deterministically derives a RawVersion from canonical
// resource bytes (spec §4.D "computes the version by hashing to_json's
// byte output").
func FromContent(content []byte) RawVersion {
	sum := sha256.Sum256(content)
	return RawVersion{value: strings.ToLower(tokenEncoding.EncodeToString(sum[:tokenLength]))}
}

// FromRaw wraps an already-computed (e.g. externally supplied) raw token
// verbatim, used when "a resource that already carries a Meta version uses
// that version" (spec §4.D).
func FromRaw(raw string) RawVersion {
	return RawVersion{value: raw}
}

// String returns the raw token.
func (v RawVersion) String() string { return v.value }

// IsZero reports whether no version has been set.
func (v RawVersion) IsZero() bool { return v.value == "" }

// Matches reports content-equality between two raw versions (spec §4.E
// "Matching rule").
func (v RawVersion) Matches(other RawVersion) bool {
	return v.value == other.value
}
