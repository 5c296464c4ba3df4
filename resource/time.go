package resource

import "time"

const rfc3339Format = time.RFC3339

func parseRFC3339(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errEmptyTimestamp
	}
	return time.Parse(time.RFC3339, s)
}

var errEmptyTimestamp = timeParseError("empty timestamp")

type timeParseError string

func (e timeParseError) Error() string { return string(e) }
