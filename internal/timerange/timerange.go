// Package timerange parses the ISO-8601 instants used by device payloads and
// by the from/to query parameters.
package timerange

import (
	"fmt"
	"strings"
	"time"

	"scale-monitor-backend/internal/apperr"
)

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseInstant accepts RFC 3339 with or without fractional seconds. Zone-less
// and date-only values are read as UTC.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// Range is an inclusive [From, To] window.
type Range struct {
	From time.Time
	To   time.Time
}

// Parse reads both bounds of a query window; either one missing or malformed
// is a BadRequest.
func Parse(from, to string) (Range, error) {
	f, err := ParseInstant(from)
	if err != nil {
		return Range{}, apperr.BadRequest("from must be an ISO-8601 date")
	}
	t, err := ParseInstant(to)
	if err != nil {
		return Range{}, apperr.BadRequest("to must be an ISO-8601 date")
	}
	return Range{From: f, To: t}, nil
}
