package clock

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeStringToMinutes converts "HH:mm" (24-hour) into minutes since midnight.
func TimeStringToMinutes(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:mm", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// MinuteRange is a half-open span of local time-of-day on a 24h circle.
// A range whose end is before its start wraps past midnight, i.e. it covers
// [start, 1440) and [0, end). Equal start and end cover the whole day.
type MinuteRange struct {
	Start  int
	Length int
}

// NewMinuteRange builds a range from minute offsets.
func NewMinuteRange(start, end int) MinuteRange {
	length := mod(end-start, MinutesPerDay)
	if length == 0 {
		length = MinutesPerDay
	}
	return MinuteRange{Start: mod(start, MinutesPerDay), Length: length}
}

// ParseMinuteRange builds a range from two "HH:mm" strings.
func ParseMinuteRange(start, end string) (MinuteRange, error) {
	s, err := TimeStringToMinutes(start)
	if err != nil {
		return MinuteRange{}, err
	}
	e, err := TimeStringToMinutes(end)
	if err != nil {
		return MinuteRange{}, err
	}
	return NewMinuteRange(s, e), nil
}

// End returns the exclusive end minute.
func (r MinuteRange) End() int {
	return mod(r.Start+r.Length, MinutesPerDay)
}

// Wraps reports whether the range crosses midnight.
func (r MinuteRange) Wraps() bool {
	return r.Start+r.Length > MinutesPerDay
}

// Contains reports whether minute m lies inside the range.
func (r MinuteRange) Contains(m int) bool {
	return mod(m-r.Start, MinutesPerDay) < r.Length
}

// Overlaps reports whether two ranges share at least one minute.
func (r MinuteRange) Overlaps(o MinuteRange) bool {
	return r.Contains(o.Start) || o.Contains(r.Start)
}

// ExtendStart moves the start earlier by minutes, keeping the end.
func (r MinuteRange) ExtendStart(minutes int) MinuteRange {
	length := r.Length + minutes
	if length > MinutesPerDay {
		length = MinutesPerDay
	}
	return MinuteRange{Start: mod(r.Start-minutes, MinutesPerDay), Length: length}
}

// OffsetFromStart returns how many minutes after the start m lies (0..1439).
func (r MinuteRange) OffsetFromStart(m int) int {
	return mod(m-r.Start, MinutesPerDay)
}

func (r MinuteRange) String() string {
	return fmt.Sprintf("%s - %s", FormatMinutes(r.Start), FormatMinutes(r.End()))
}

// FormatMinutes renders minutes since midnight as HH:mm.
func FormatMinutes(m int) string {
	m = mod(m, MinutesPerDay)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func mod(a, b int) int {
	return ((a % b) + b) % b
}
