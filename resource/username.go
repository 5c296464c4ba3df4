package resource

import (
	"fmt"
	"strings"
)

// UserName is a non-empty, case-insensitively-compared identifier with
// server-scoped uniqueness (spec §3).
type UserName struct {
	value string
}

// NewUserName validates and wraps a raw userName.
func NewUserName(raw string) (UserName, error) {
	if raw == "" {
		return UserName{}, fmt.Errorf("userName must not be empty")
	}
	return UserName{value: raw}, nil
}

// String returns the raw (case-preserving) value.
func (u UserName) String() string { return u.value }

// Equal compares two user names case-insensitively (spec §3).
func (u UserName) Equal(other UserName) bool {
	return strings.EqualFold(u.value, other.value)
}

// FoldedKey returns a case-folded key suitable for uniqueness-scope
// comparisons (spec §4.G "server-scope uniqueness").
func (u UserName) FoldedKey() string {
	return strings.ToLower(u.value)
}

func (u UserName) IsZero() bool { return u.value == "" }
