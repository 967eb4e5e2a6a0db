package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeStringToMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:30", 0, true},
		{"09:60", 0, true},
		{"0930", 0, true},
	}
	for _, c := range cases {
		got, err := TimeStringToMinutes(c.in)
		if c.wantErr {
			assert.Error(t, err, c.in)
			continue
		}
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func mustRange(t *testing.T, start, end string) MinuteRange {
	t.Helper()
	r, err := ParseMinuteRange(start, end)
	require.NoError(t, err)
	return r
}

func TestMinuteRangeOverlaps(t *testing.T) {
	cases := []struct {
		name    string
		a, b    [2]string
		overlap bool
	}{
		{"partial overlap", [2]string{"09:00", "17:00"}, [2]string{"16:00", "20:00"}, true},
		{"touching ends", [2]string{"09:00", "17:00"}, [2]string{"17:00", "22:00"}, false},
		{"contained", [2]string{"08:00", "20:00"}, [2]string{"10:00", "12:00"}, true},
		{"disjoint", [2]string{"06:00", "10:00"}, [2]string{"12:00", "14:00"}, false},
		{"overnight vs early morning", [2]string{"22:00", "06:00"}, [2]string{"05:00", "09:00"}, true},
		{"overnight vs evening", [2]string{"22:00", "06:00"}, [2]string{"20:00", "23:00"}, true},
		{"overnight vs day", [2]string{"22:00", "06:00"}, [2]string{"06:00", "22:00"}, false},
		{"two overnight", [2]string{"23:00", "02:00"}, [2]string{"01:00", "03:00"}, true},
		{"full day", [2]string{"00:00", "00:00"}, [2]string{"12:00", "13:00"}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := mustRange(t, c.a[0], c.a[1])
			b := mustRange(t, c.b[0], c.b[1])
			assert.Equal(t, c.overlap, a.Overlaps(b))
			assert.Equal(t, c.overlap, b.Overlaps(a))
		})
	}
}

func TestMinuteRangeWraps(t *testing.T) {
	assert.True(t, mustRange(t, "22:00", "06:00").Wraps())
	assert.False(t, mustRange(t, "08:00", "16:00").Wraps())
	assert.Equal(t, 360, mustRange(t, "22:00", "06:00").End())
}

func TestCheckInWindowWithEarlyStart(t *testing.T) {
	window := mustRange(t, "22:00", "06:00").ExtendStart(30)

	cases := []struct {
		at      string
		allowed bool
	}{
		{"21:45", true},
		{"21:30", true},
		{"21:29", false},
		{"20:00", false},
		{"23:59", true},
		{"05:30", true},
		{"06:00", false},
		{"07:00", false},
	}
	for _, c := range cases {
		m, err := TimeStringToMinutes(c.at)
		require.NoError(t, err)
		assert.Equal(t, c.allowed, window.Contains(m), c.at)
	}
	assert.Equal(t, "21:30 - 06:00", window.String())
}

func TestExtendStartCrossesMidnightBackward(t *testing.T) {
	window := mustRange(t, "00:10", "08:00").ExtendStart(30)

	assert.True(t, window.Wraps())
	assert.True(t, window.Contains(23*60+45))
	assert.True(t, window.Contains(7*60))
	assert.False(t, window.Contains(23*60))
}

func TestExtendStartCapsAtFullDay(t *testing.T) {
	window := mustRange(t, "10:00", "09:45").ExtendStart(30)

	assert.Equal(t, MinutesPerDay, window.Length)
	assert.True(t, window.Contains(9*60+50))
}
