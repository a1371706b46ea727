package circular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimeOfDay_RoundTripEverySecond(t *testing.T) {
	for s := 0; s < int(SecondsPerDay); s++ {
		v := NewTimeOfDay(s/3600, s%3600/60, s%60)
		got := TimeOfDayDomain.FromAngle(TimeOfDayDomain.ToAngle(v))
		if got != v {
			t.Fatalf("round trip of %s gave %s", v, got)
		}
	}
}

func TestTimeOfDay_RoundTripThroughState(t *testing.T) {
	for _, v := range []TimeOfDay{
		NewTimeOfDay(0, 0, 0),
		NewTimeOfDay(0, 0, 1),
		NewTimeOfDay(6, 0, 0),
		NewTimeOfDay(11, 59, 59),
		NewTimeOfDay(18, 30, 15),
		NewTimeOfDay(23, 59, 59),
	} {
		result := TimeOfDayDomain.Finalize(Init().Add(TimeOfDayDomain.ToAngle(v)))
		require.True(t, result.Defined)
		assert.Equal(t, v, result.Value)
	}
}

func TestTimeOfDay_PreservesSubSecondPrecision(t *testing.T) {
	v := TimeOfDay{Hour: 13, Minute: 14, Second: 15, Nanosecond: 250_000_000}
	got := TimeOfDayDomain.FromAngle(TimeOfDayDomain.ToAngle(v))
	assert.Equal(t, v, got)
	assert.Equal(t, "13:14:15.25", got.String())
}

func TestTimeOfDay_WrapsNearFullTurn(t *testing.T) {
	assert.Equal(t, NewTimeOfDay(0, 0, 0), DegreesToTimeOfDay(359.99999999999))
	assert.Equal(t, NewTimeOfDay(0, 0, 0), DegreesToTimeOfDay(360))
	assert.Equal(t, NewTimeOfDay(18, 0, 0), DegreesToTimeOfDay(-90))
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input    string
		expected TimeOfDay
		wantErr  bool
	}{
		{"06:00:00", NewTimeOfDay(6, 0, 0), false},
		{" 23:59:59 ", NewTimeOfDay(23, 59, 59), false},
		{"07:30", NewTimeOfDay(7, 30, 0), false},
		{"12:00:00.5", TimeOfDay{Hour: 12, Nanosecond: 500_000_000}, false},
		{"24:00:00", TimeOfDay{}, true},
		{"noon", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWeekday_RoundTrip(t *testing.T) {
	// 2023-07-09 is a Sunday
	start := time.Date(2023, 7, 9, 0, 0, 0, 0, time.UTC)
	for minute := 0; minute < 7*24*60; minute += 7 {
		ts := start.Add(time.Duration(minute) * time.Minute)
		got := WeekdayDomain.FromAngle(WeekdayDomain.ToAngle(ts))
		if got != ts.Weekday() {
			t.Fatalf("round trip of %s gave %s", ts, got)
		}
	}
}

func TestWeekday_DayBoundaries(t *testing.T) {
	for d := 0; d < 7; d++ {
		ts := time.Date(2023, 7, 9+d, 0, 0, 0, 0, time.UTC)
		result := WeekdayDomain.Finalize(Init().Add(WeekdayDomain.ToAngle(ts)))
		require.True(t, result.Defined)
		assert.Equal(t, ts.Weekday(), result.Value, "midnight of %s", ts.Weekday())
	}
}

func TestWeekday_KnownAngle(t *testing.T) {
	ts := time.Date(2023, 7, 12, 6, 0, 0, 0, time.UTC)

	angle := WeekdayDomain.ToAngle(ts)

	assert.InDelta(t, 167.14285714285714, float64(angle), 1e-9)
	assert.Equal(t, time.Wednesday, WeekdayDomain.FromAngle(angle))
}

func TestWeekday_UsesTimestampLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// Tuesday 20:00 UTC is Wednesday 05:00 in Tokyo
	ts := time.Date(2023, 7, 11, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Tuesday, WeekdayDomain.FromAngle(WeekdayDomain.ToAngle(ts)))
	assert.Equal(t, time.Wednesday, WeekdayDomain.FromAngle(WeekdayDomain.ToAngle(ts.In(tokyo))))
}

func TestWeekdayLabel(t *testing.T) {
	assert.Equal(t, "Sunday", WeekdayLabel(time.Sunday))
	assert.Equal(t, "Wednesday", WeekdayLabel(time.Wednesday))
	assert.Equal(t, "Saturday", WeekdayLabel(time.Saturday))
	assert.Equal(t, "Saturday", DegreesToWeekday(-1).String())
}

func TestMonth_RoundTrip(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		d := date(2023, m, 15)
		assert.Equal(t, m, MonthDomain.FromAngle(MonthDomain.ToAngle(d)))

		result := MonthDomain.Finalize(Init().Add(MonthDomain.ToAngle(d)))
		require.True(t, result.Defined)
		assert.Equal(t, m, result.Value)
	}
}

func TestDegreesToMonth(t *testing.T) {
	tests := []struct {
		deg      float64
		expected time.Month
	}{
		{0, time.January},
		{360, time.January},
		{-360, time.January},
		{14.9, time.January},
		{15.1, time.February},
		{29.9999999, time.February},
		{345.1, time.January},
		{330, time.December},
		{-30, time.December},
		{180, time.July},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DegreesToMonth(tt.deg), "deg=%v", tt.deg)
	}
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "January", MonthLabel(time.January))
	assert.Equal(t, "December", MonthLabel(time.December))
	assert.Equal(t, "January", MonthLabel(time.Month(13)))
}

func TestDomain_Accessors(t *testing.T) {
	assert.Equal(t, "time_of_day", TimeOfDayDomain.Name())
	assert.Equal(t, SecondsPerDay, TimeOfDayDomain.Cycle())
	assert.Equal(t, "day_of_week", WeekdayDomain.Name())
	assert.Equal(t, 604800.0, WeekdayDomain.Cycle())
	assert.Equal(t, "month", MonthDomain.Name())
	assert.Equal(t, 12.0, MonthDomain.Cycle())
}

func TestToAngle_IsNotReduced(t *testing.T) {
	// December maps to 330 degrees, the last slot before wrapping
	assert.InDelta(t, 330.0, float64(MonthDomain.ToAngle(date(2023, time.December, 1))), 1e-12)
	assert.InDelta(t, 359.99583333333334, float64(TimeOfDayDomain.ToAngle(NewTimeOfDay(23, 59, 59))), 1e-9)
}
