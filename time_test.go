package evx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDurationBounds(t *testing.T) {
	t.Run("max is inclusive", func(t *testing.T) {
		v, err := NewDuration(MaxDurationSeconds, 0)
		require.NoError(t, err)
		secs, nanos := v.Duration()
		assert.Equal(t, int64(MaxDurationSeconds), secs)
		assert.Equal(t, int32(0), nanos)

		_, err = NewDuration(-MaxDurationSeconds, 0)
		assert.NoError(t, err)
	})
	t.Run("one past the bound fails", func(t *testing.T) {
		_, err := NewDuration(MaxDurationSeconds+1, 0)
		assert.ErrorIs(t, err, ErrRange)
		_, err = NewDuration(-MaxDurationSeconds-1, 0)
		assert.ErrorIs(t, err, ErrRange)
	})
	t.Run("nanos range and sign", func(t *testing.T) {
		_, err := NewDuration(0, 1000000000)
		assert.ErrorIs(t, err, ErrRange)
		_, err = NewDuration(0, -1000000000)
		assert.ErrorIs(t, err, ErrRange)
		_, err = NewDuration(1, -1)
		assert.ErrorIs(t, err, ErrRange)
		_, err = NewDuration(-1, 1)
		assert.ErrorIs(t, err, ErrRange)
		_, err = NewDuration(0, -999999999)
		assert.NoError(t, err)
	})
}

func TestNewTimestampBounds(t *testing.T) {
	t.Run("year range is inclusive", func(t *testing.T) {
		_, err := NewTimestamp(MinTimestampSeconds, 0)
		assert.NoError(t, err)
		v, err := NewTimestamp(MaxTimestampSeconds, 999999999)
		require.NoError(t, err)
		secs, nanos := v.Timestamp()
		assert.Equal(t, int64(MaxTimestampSeconds), secs)
		assert.Equal(t, int32(999999999), nanos)
	})
	t.Run("outside the year range fails", func(t *testing.T) {
		_, err := NewTimestamp(MinTimestampSeconds-1, 0)
		assert.ErrorIs(t, err, ErrRange)
		_, err = NewTimestamp(MaxTimestampSeconds+1, 0)
		assert.ErrorIs(t, err, ErrRange)
	})
	t.Run("nanos must be non-negative", func(t *testing.T) {
		_, err := NewTimestamp(0, -1)
		assert.ErrorIs(t, err, ErrRange)
	})
}

func TestNewTimestampFromGo(t *testing.T) {
	when := time.Date(2020, 6, 1, 12, 30, 0, 500, time.UTC)
	v, err := NewTimestampFromGo(when)
	require.NoError(t, err)
	secs, nanos := v.Timestamp()
	assert.Equal(t, when.Unix(), secs)
	assert.Equal(t, int32(500), nanos)
}

func TestParseDuration(t *testing.T) {
	v, err := ParseDuration("1h30m")
	require.NoError(t, err)
	secs, nanos := v.Duration()
	assert.Equal(t, int64(5400), secs)
	assert.Equal(t, int32(0), nanos)

	_, err = ParseDuration("bogus")
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{
		"2020-06-01T12:30:00Z",
		"2020-06-01 12:30:00",
		"June 1, 2020 12:30:00",
	} {
		v, err := ParseTime(s)
		require.NoError(t, err, s)
		secs, _ := v.Timestamp()
		assert.Equal(t, int64(1591014600), secs, s)
	}
	_, err := ParseTime("not a time")
	assert.Error(t, err)
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	b := EncodeTimeOfDay(-123, 456)
	secs, nanos := DecodeTimeOfDay(b)
	assert.Equal(t, int64(-123), secs)
	assert.Equal(t, int32(456), nanos)
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		secs  int64
		nanos int32
		want  string
	}{
		{0, 0, "0s"},
		{90, 0, "1m30s"},
		{1, 500000000, "1.5s"},
		{-1, -500000000, "-1.5s"},
		{MaxDurationSeconds, 0, "315576000000s"},
		{-MaxDurationSeconds, -1, "-315576000000.000000001s"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, formatDuration(c.secs, c.nanos))
	}
}
