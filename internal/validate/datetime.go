// Package validate provides small, pure format validators shared by the
// resource value objects and the attribute-type validator.
package validate

import "time"

// DateTime reports whether s is a semantically valid RFC 3339 timestamp
// with an explicit offset (SCIM's dateTime data type, spec §4.B).
// time.Parse already rejects calendar-invalid dates such as Feb 30.
func DateTime(s string) bool {
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
