package dates

import (
	"strings"
	"time"
)

const Layout = "2006-01-02"

var formats = []string{
	Layout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006/01/02",
	"02/01/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Parse reads a flight date in any of the accepted formats.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &time.ParseError{
		Value:   s,
		Message: "unable to parse date string",
	}
}

// Normalize returns s as YYYY-MM-DD when it parses, otherwise s unchanged.
func Normalize(s string) string {
	t, err := Parse(s)
	if err != nil {
		return s
	}
	return t.Format(Layout)
}

// Today returns the current date in loc as YYYY-MM-DD.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format(Layout)
}
