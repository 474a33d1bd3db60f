package data

import (
	"fmt"
	"strings"
	"time"
)

// Timestamps carrying a zone are converted to the display location.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
}

// Timestamps without a zone are read as display-location wall time.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses the update timestamp of a track document.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.TrimSpace(raw)

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable updated_at timestamp %q", raw)
}

// FormatTimestamp renders t as dd-MM-yyy H:mm:ss. The year is padded to three
// digits and the hour is not padded.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%02d-%02d-%03d %d:%02d:%02d",
		t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute(), t.Second())
}

// FormatUpdatedAt parses raw and returns its display form in loc.
func FormatUpdatedAt(raw string, loc *time.Location) (string, error) {
	t, err := ParseTimestamp(raw, loc)
	if err != nil {
		return "", err
	}
	return FormatTimestamp(t), nil
}
