package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical storage form of a transaction date.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order when parsing free-form date text.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006",
	"1/2/06",
	"Jan 2, 2006",
	"2 Jan 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate parses date text in any accepted layout. The result keeps the
// offset written in the text so that CalendarDate does not shift the day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// CalendarDate formats the calendar day of t, dropping time of day and offset.
func CalendarDate(t time.Time) string {
	return t.Format(DateLayout)
}
