package validate

import "testing"

func TestDateTime(t *testing.T) {
	cases := map[string]bool{
		"2024-01-15T10:30:00Z":      true,
		"2024-01-15T10:30:00+02:00": true,
		"2024-02-30T10:30:00Z":      false, // no such date
		"not-a-date":                false,
		"2024-01-15":                false, // missing time/offset
	}
	for in, want := range cases {
		if got := DateTime(in); got != want {
			t.Errorf("DateTime(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBase64(t *testing.T) {
	if !Base64("aGVsbG8=") {
		t.Error("expected valid base64 to pass")
	}
	if Base64("not base64!!") {
		t.Error("expected invalid base64 to fail")
	}
}

func TestAbsoluteURIOrURN(t *testing.T) {
	cases := map[string]bool{
		"urn:ietf:params:scim:schemas:core:2.0:User": true,
		"https://example.com/v2/Users":               true,
		"urn:":                                        false,
		"not-a-uri":                                   false,
		"":                                             false,
	}
	for in, want := range cases {
		if got := AbsoluteURIOrURN(in); got != want {
			t.Errorf("AbsoluteURIOrURN(%q) = %v, want %v", in, got, want)
		}
	}
}
