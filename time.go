package evx

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/evx-dev/evx/vcode"
)

// Duration and timestamp payloads are a varint seconds count followed by a
// varint nanosecond remainder.  Durations cannot be held in a time.Duration
// because the representable range is roughly +/-10,000 years.
const (
	// MaxDurationSeconds is the largest representable duration magnitude
	// in seconds.  The bound is inclusive.
	MaxDurationSeconds = 315576000000

	// MinTimestampSeconds and MaxTimestampSeconds bound timestamps to the
	// years 0001 through 9999, as seconds since the Unix epoch.
	MinTimestampSeconds = -62135596800
	MaxTimestampSeconds = 253402300799
)

type TypeOfDuration struct{}

// NewDuration returns a duration value of secs seconds plus nanos
// nanoseconds.  nanos must be in (-1e9, 1e9) with the same sign as secs, and
// the total magnitude must not exceed MaxDurationSeconds seconds.
func NewDuration(secs int64, nanos int32) (Value, error) {
	if nanos <= -1000000000 || nanos >= 1000000000 ||
		(secs > 0 && nanos < 0) || (secs < 0 && nanos > 0) {
		return Value{}, fmt.Errorf("duration nanos %d: %w", nanos, ErrRange)
	}
	if secs > MaxDurationSeconds || secs < -MaxDurationSeconds {
		return Value{}, fmt.Errorf("duration %ds: %w", secs, ErrRange)
	}
	return Value{typ: TypeDuration, bytes: EncodeTimeOfDay(secs, nanos)}, nil
}

// NewDurationFromGo converts a time.Duration, which is always in range.
func NewDurationFromGo(d time.Duration) Value {
	v, err := NewDuration(int64(d/time.Second), int32(d%time.Second))
	if err != nil {
		panic(err)
	}
	return v
}

// ParseDuration parses a duration literal in time.ParseDuration syntax.
func ParseDuration(s string) (Value, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return Value{}, err
	}
	return NewDurationFromGo(d), nil
}

func (t *TypeOfDuration) ID() int        { return IDDuration }
func (t *TypeOfDuration) Kind() Kind     { return DurationKind }
func (t *TypeOfDuration) String() string { return "duration" }

type TypeOfTimestamp struct{}

// NewTimestamp returns a timestamp value of secs seconds since the Unix
// epoch plus nanos nanoseconds.  The instant must fall within the years 0001
// through 9999 and nanos must be in [0, 1e9).
func NewTimestamp(secs int64, nanos int32) (Value, error) {
	if nanos < 0 || nanos >= 1000000000 {
		return Value{}, fmt.Errorf("timestamp nanos %d: %w", nanos, ErrRange)
	}
	if secs < MinTimestampSeconds || secs > MaxTimestampSeconds {
		return Value{}, fmt.Errorf("timestamp %ds: %w", secs, ErrRange)
	}
	return Value{typ: TypeTimestamp, bytes: EncodeTimeOfDay(secs, nanos)}, nil
}

// NewTimestampFromGo converts a time.Time, failing if it falls outside the
// representable range.
func NewTimestampFromGo(t time.Time) (Value, error) {
	return NewTimestamp(t.Unix(), int32(t.Nanosecond()))
}

// ParseTime parses a timestamp from any of the common human formats.
func ParseTime(s string) (Value, error) {
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return Value{}, err
	}
	return NewTimestampFromGo(t)
}

func (t *TypeOfTimestamp) ID() int        { return IDTimestamp }
func (t *TypeOfTimestamp) Kind() Kind     { return TimestampKind }
func (t *TypeOfTimestamp) String() string { return "timestamp" }

// EncodeTimeOfDay appends the seconds-and-nanos payload shared by duration
// and timestamp values.
func EncodeTimeOfDay(secs int64, nanos int32) vcode.Bytes {
	b := binary.AppendVarint(nil, secs)
	return binary.AppendVarint(b, int64(nanos))
}

// DecodeTimeOfDay decodes a seconds-and-nanos payload.
func DecodeTimeOfDay(b vcode.Bytes) (secs int64, nanos int32) {
	secs, n := binary.Varint(b)
	v, _ := binary.Varint(b[n:])
	return secs, int32(v)
}

func formatDuration(secs int64, nanos int32) string {
	if d, ok := asGoDuration(secs, nanos); ok {
		return d.String()
	}
	// Beyond time.Duration's range; nanos render as a fractional part.
	s := strconv.FormatInt(secs, 10)
	if nanos != 0 {
		frac := strconv.FormatInt(int64(abs32(nanos))+1000000000, 10)
		s += "." + trimZeros(frac[1:])
	}
	return s + "s"
}

func asGoDuration(secs int64, nanos int32) (time.Duration, bool) {
	const maxSecs = int64(1<<63-1) / int64(time.Second)
	if secs > maxSecs || secs < -maxSecs {
		return 0, false
	}
	return time.Duration(secs)*time.Second + time.Duration(nanos), true
}

func abs32(n int32) int32 {
	if n < 0 {
		return -n
	}
	return n
}

func trimZeros(s string) string {
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}

func formatTimestamp(secs int64, nanos int32) string {
	return time.Unix(secs, int64(nanos)).UTC().Format(time.RFC3339Nano)
}
