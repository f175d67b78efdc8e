package datetime

import (
	"strings"
	"time"
)

// Day-first calendar date format used by clients.
const LocalDateLayout = "02/01/2006"

// Storage representation of instants: ISO-8601 in UTC with milliseconds.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Converts "DD/MM/YYYY" into ISO-8601 string (midnight UTC).
// Parsing is strict: day and month must have two digits.
// Returns false if v is empty or can't be parsed.
func LocalDateToISO(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}

	t, err := time.Parse(LocalDateLayout, v)
	if err != nil {
		return "", false
	}

	return t.UTC().Format(ISOLayout), true
}

// Parses ISO-8601 timestamp. Accepts both RFC3339 and RFC3339 with fractions.
func ParseISO(v string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
