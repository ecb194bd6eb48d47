package user

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is an instant paired with a fixed UTC offset. The offset is
// kept at minute precision and carries no daylight-saving rules.
type Timestamp struct {
	t time.Time
}

// NewTimestamp pins t's current offset as a fixed zone. Sub-minute offset
// components are dropped; the instant is unchanged.
func NewTimestamp(t time.Time) Timestamp {
	_, offset := t.Zone()
	offset -= offset % 60
	return Timestamp{t: t.In(time.FixedZone("", offset))}
}

// ParseTimestamp parses an RFC 3339 timestamp. The offset must be explicit,
// either "Z" or ±hh:mm.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp: %w", err)
	}
	return NewTimestamp(t), nil
}

// Time returns the timestamp as a time.Time in its fixed zone.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// OffsetMinutes returns the offset from UTC in minutes.
func (ts Timestamp) OffsetMinutes() int {
	_, offset := ts.t.Zone()
	return offset / 60
}

// IsZero reports whether ts holds no instant.
func (ts Timestamp) IsZero() bool {
	return ts.t.IsZero()
}

// Equal reports whether both timestamps name the same instant with the
// same offset.
func (ts Timestamp) Equal(other Timestamp) bool {
	return ts.t.Equal(other.t) && ts.OffsetMinutes() == other.OffsetMinutes()
}

// String renders the timestamp as RFC 3339 with the offset verbatim.
// A zero offset renders as "Z".
func (ts Timestamp) String() string {
	return ts.t.Format(time.RFC3339Nano)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if !bytes.HasPrefix(data, []byte(`"`)) {
		return fmt.Errorf("timestamp must be a JSON string, got %s", kindOf(data))
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
