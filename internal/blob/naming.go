package blob

import (
	"fmt"
	"strings"
	"time"
)

// Prefix is the type tag at the start of every object name.
type Prefix string

const (
	PrefixPhoto      Prefix = "photo"
	PrefixSensorData Prefix = "sensor_data"
)

const (
	layoutDateTime = "20060102150405"
	layoutDate     = "20060102"

	displayDateTime = "2006-01-02 15:04:05"
	displayDate     = "2006-01-02"
)

// knownPrefixes is ordered longest first so "sensor_data" wins over any shorter tag.
var knownPrefixes = []Prefix{PrefixSensorData, PrefixPhoto}

// ParsePrefix validates a user-supplied type tag. A trailing "_" is accepted.
func ParsePrefix(s string) (Prefix, error) {
	s = strings.TrimSuffix(s, "_")
	for _, p := range knownPrefixes {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPrefix, s)
}

// ListPrefix returns the name prefix used when enumerating this object family.
func (p Prefix) ListPrefix() string {
	return string(p) + "_"
}

func (p Prefix) String() string {
	return string(p)
}

// PrefixOf reports which known family a name belongs to.
func PrefixOf(name string) (Prefix, bool) {
	for _, p := range knownPrefixes {
		if strings.HasPrefix(name, p.ListPrefix()) {
			return p, true
		}
	}
	return "", false
}

// timestampSegment extracts the raw timestamp text from {type}_{timestamp}{.ext}.
func timestampSegment(name string) (string, error) {
	var segment string
	if p, ok := PrefixOf(name); ok {
		segment = strings.TrimPrefix(name, p.ListPrefix())
	} else {
		parts := strings.Split(name, "_")
		if len(parts) < 2 {
			return "", fmt.Errorf("%w: %q has no timestamp segment", ErrMalformedName, name)
		}
		segment = parts[1]
	}
	segment, _, _ = strings.Cut(segment, ".")
	return segment, nil
}

// CaptureTime parses the timestamp encoded in an object name. The boolean is
// true when the name carried a time of day (the 14-digit form).
func CaptureTime(name string) (time.Time, bool, error) {
	segment, err := timestampSegment(name)
	if err != nil {
		return time.Time{}, false, err
	}
	if t, err := time.Parse(layoutDateTime, segment); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(layoutDate, segment); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: %q is not YYYYMMDD or YYYYMMDDHHMMSS", ErrMalformedName, segment)
}

// DecodeCaptureTime renders the capture time of an object for display,
// "2006-01-02 15:04:05" for full timestamps and "2006-01-02" for date-only ones.
func DecodeCaptureTime(name string) (string, error) {
	t, hasClock, err := CaptureTime(name)
	if err != nil {
		return "", err
	}
	return FormatCaptureTime(t, hasClock), nil
}

// FormatCaptureTime renders a parsed capture time.
func FormatCaptureTime(t time.Time, hasClock bool) string {
	if hasClock {
		return t.Format(displayDateTime)
	}
	return t.Format(displayDate)
}
