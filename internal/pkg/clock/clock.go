package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
)

// Clock resolves "local" calendar days for a single organisation-wide UTC
// offset. All instants it returns are in UTC.
type Clock struct {
	offset time.Duration
	loc    *time.Location
	now    func() time.Time
}

// New creates a Clock for the given UTC offset using the system time source.
func New(offset time.Duration) *Clock {
	return NewWithNow(offset, time.Now)
}

// NewWithNow creates a Clock with a custom time source (used by tests and jobs).
func NewWithNow(offset time.Duration, now func() time.Time) *Clock {
	return &Clock{
		offset: offset,
		loc:    time.FixedZone(zoneName(offset), int(offset.Seconds())),
		now:    now,
	}
}

// ParseOffset accepts "+07:00", "-05:30", "+7" or "0".
func ParseOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" || strings.EqualFold(s, "Z") {
		return 0, nil
	}

	sign := time.Duration(1)
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	}

	hoursPart, minutesPart, hasMinutes := strings.Cut(s, ":")
	hours, err := strconv.Atoi(hoursPart)
	if err != nil || hours < 0 || hours > 14 {
		return 0, fmt.Errorf("invalid utc offset %q", s)
	}
	minutes := 0
	if hasMinutes {
		minutes, err = strconv.Atoi(minutesPart)
		if err != nil || minutes < 0 || minutes > 59 {
			return 0, fmt.Errorf("invalid utc offset %q", s)
		}
	}

	return sign * (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute), nil
}

func zoneName(offset time.Duration) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	return fmt.Sprintf("UTC%s%02d:%02d", sign, h, m)
}

// Now returns the current instant in UTC.
func (c *Clock) Now() time.Time {
	return c.now().UTC()
}

// Location returns the fixed zone of the organisation.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Offset returns the configured UTC offset.
func (c *Clock) Offset() time.Duration {
	return c.offset
}

// LocalDayBounds returns [start, end) of the local day containing t.
func (c *Clock) LocalDayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(c.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// DayStart returns the canonical instant (local midnight, in UTC) of t's local day.
func (c *Clock) DayStart(t time.Time) time.Time {
	start, _ := c.LocalDayBounds(t)
	return start
}

// Today returns the canonical instant of the current local day.
func (c *Clock) Today() time.Time {
	return c.DayStart(c.now())
}

// IsToday reports whether t falls on the current local day.
func (c *Clock) IsToday(t time.Time) bool {
	return c.DayStart(t).Equal(c.Today())
}

// ParseDate parses YYYY-MM-DD as a local calendar day.
func (c *Clock) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), c.loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatDate renders t as its local YYYY-MM-DD.
func (c *Clock) FormatDate(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// MonthBounds returns [first day, first day of next month) of a local calendar month.
func (c *Clock) MonthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, c.loc)
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}

// MinuteOfDay returns the local minutes since midnight of t.
func (c *Clock) MinuteOfDay(t time.Time) int {
	local := t.In(c.loc)
	return local.Hour()*60 + local.Minute()
}
