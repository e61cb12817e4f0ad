package clock

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	iso8601 "github.com/senseyeio/duration"
)

var ErrInvalidTimeFormat = errors.New("invalid time format")

// Time is a simulation clock value in seconds since midnight of the first
// simulated day. Values past 24:00:00 are valid.
type Time int

func (t Time) Seconds() int {
	return int(t)
}

func (t Time) Add(seconds int) Time {
	return t + Time(seconds)
}

// Sub returns t-u in seconds
func (t Time) Sub(u Time) int {
	return int(t - u)
}

func (t Time) String() string {
	return FormatSeconds(float64(t))
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n float64
		if numErr := json.Unmarshal(data, &n); numErr != nil {
			return err
		}
		*t = Time(math.Round(n))
		return nil
	}

	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*t = parsed

	return nil
}

func (t Time) MarshalCSV() (string, error) {
	return t.String(), nil
}

func (t *Time) UnmarshalCSV(s string) error {
	seconds, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*t = Time(seconds)

	return nil
}

// ParseClock parses a HH:MM:SS clock string. Hours are unbounded, minutes
// and seconds must be in 0-59.
func ParseClock(s string) (Time, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	var values [3]int
	for i, part := range parts {
		if part == "" {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}

		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		values[i] = n
	}

	if values[1] > 59 || values[2] > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	return Time(values[0]*3600 + values[1]*60 + values[2]), nil
}

// ParseOptional returns nil for an empty or malformed clock string
func ParseOptional(s string) *Time {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	t, err := ParseClock(s)
	if err != nil {
		return nil
	}

	return &t
}

// ParseDuration accepts HH:MM:SS, a plain number of seconds or an ISO-8601
// duration such as PT10M.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty duration", ErrInvalidTimeFormat)
	}

	if strings.Contains(s, ":") {
		t, err := ParseClock(s)
		return int(t), err
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		return int(math.Round(n)), nil
	}

	if strings.HasPrefix(s, "P") {
		d, err := iso8601.ParseISO8601(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}

		reference := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
		return int(d.Shift(reference).Sub(reference).Seconds()), nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
}

// ParseOptionalDuration returns nil for an empty or malformed duration
func ParseOptionalDuration(s string) *int {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	seconds, err := ParseDuration(s)
	if err != nil {
		return nil
	}

	return &seconds
}

// FormatSeconds renders n as HH:MM:SS. Negative and non-finite values
// render as 00:00:00.
func FormatSeconds(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		n = 0
	}

	total := int64(math.Round(n))
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatOptional renders "-" for an unknown value
func FormatOptional[T ~int | ~float64](n *T) string {
	if n == nil {
		return "-"
	}

	return FormatSeconds(float64(*n))
}
