package validate

import "encoding/base64"

// Base64 reports whether s decodes as standard base64 (SCIM's binary data
// type, spec §4.B).
func Base64(s string) bool {
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}
