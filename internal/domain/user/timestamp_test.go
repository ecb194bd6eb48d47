package user

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimestamp_PinsOffset(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// EST at creation; the pinned zone must not follow DST afterwards.
	ts := NewTimestamp(time.Date(2024, 1, 15, 12, 0, 0, 0, ny))
	assert.Equal(t, -300, ts.OffsetMinutes())

	summer := ts.Time().AddDate(0, 6, 0)
	_, offset := summer.Zone()
	assert.Equal(t, -300*60, offset)
}

func TestNewTimestamp_DropsSubMinuteOffset(t *testing.T) {
	ts := NewTimestamp(time.Date(1900, 1, 1, 0, 0, 0, 0, time.FixedZone("LMT", 5*3600+53*60+28)))
	assert.Equal(t, 5*60+53, ts.OffsetMinutes())
	assert.Equal(t, "1899-12-31T23:59:32+05:53", ts.String())
}

func TestTimestamp_Equal(t *testing.T) {
	a, err := ParseTimestamp("2024-03-01T10:00:00+05:30")
	require.NoError(t, err)
	b, err := ParseTimestamp("2024-03-01T04:30:00Z")
	require.NoError(t, err)
	c, err := ParseTimestamp("2024-03-01T10:00:00.000+05:30")
	require.NoError(t, err)

	assert.True(t, a.Time().Equal(b.Time()), "same instant")
	assert.False(t, a.Equal(b), "different offsets")
	assert.True(t, a.Equal(c))
}

func TestTimestamp_JSON(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-01T10:00:00-03:00"`), &ts))
	assert.Equal(t, -180, ts.OffsetMinutes())

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01T10:00:00-03:00"`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`12`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`"2024-03-01T10:00:00"`), &ts))
}
