package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts lists the accepted input layouts, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Timestamp is an instant that may be absent or unparseable. The zero value
// is a missing timestamp.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// At wraps t as a valid Timestamp. A zero time is treated as missing.
func At(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: t, Valid: true}
}

// AtPtr wraps an optional time.
func AtPtr(t *time.Time) Timestamp {
	if t == nil {
		return Timestamp{}
	}
	return At(*t)
}

// ParseTimestamp parses s using the accepted layouts. An empty string yields a
// missing Timestamp and no error; anything else that cannot be parsed wraps
// ErrMalformedTimestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return At(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}

// Ptr returns the instant or nil when missing.
func (t Timestamp) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// Hour returns the fractional-free hour of day, or false when missing.
func (t Timestamp) Hour() (float64, bool) {
	if !t.Valid {
		return 0, false
	}
	return float64(t.Time.Hour()), true
}

// MarshalJSON encodes a valid timestamp as RFC3339 and a missing one as null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// UnmarshalJSON never fails on malformed input: one bad value must not block
// decoding of a whole export, so it decodes to a missing Timestamp instead.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	*t = Timestamp{}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return nil
	}
	*t = parsed
	return nil
}
