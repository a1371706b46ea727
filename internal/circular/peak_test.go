package circular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalize_NoObservations(t *testing.T) {
	assert.False(t, Finalize(TimeOfDayDomain, Init()).Defined)
	assert.False(t, Finalize(WeekdayDomain, Init()).Defined)
	assert.False(t, Finalize(MonthDomain, Init()).Defined)
}

func TestFinalize_IsIdempotent(t *testing.T) {
	s := Init().Add(10).Add(40).Add(75)

	first := Finalize(TimeOfDayDomain, s)
	second := Finalize(TimeOfDayDomain, s)

	assert.Equal(t, first, second)
	assert.Equal(t, Init().Add(10).Add(40).Add(75), s)
}

func TestPeak_TimeOfDayOppositesAreUndefined(t *testing.T) {
	result := Peak(TimeOfDayDomain, []TimeOfDay{
		NewTimeOfDay(0, 0, 0),
		NewTimeOfDay(12, 0, 0),
	})

	assert.False(t, result.Defined)
	assert.Equal(t, TimeOfDay{}, result.Value)
}

func TestPeak_TimeOfDayRepeatedValue(t *testing.T) {
	six := NewTimeOfDay(6, 0, 0)

	result := Peak(TimeOfDayDomain, []TimeOfDay{six, six, six})

	require.True(t, result.Defined)
	assert.Equal(t, six, result.Value)
	assert.Equal(t, "06:00:00", result.Value.String())
	assert.InDelta(t, 90.0, float64(result.Angle), 1e-9)
}

func TestPeak_TimeOfDayWrapsMidnight(t *testing.T) {
	result := Peak(TimeOfDayDomain, []TimeOfDay{
		NewTimeOfDay(23, 0, 0),
		NewTimeOfDay(1, 0, 0),
	})

	require.True(t, result.Defined)
	assert.Equal(t, NewTimeOfDay(0, 0, 0), result.Value)
}

func TestPeak_WeekdayWednesday(t *testing.T) {
	result := Peak(WeekdayDomain, []time.Time{
		time.Date(2023, 7, 12, 1, 0, 0, 0, time.UTC),
		time.Date(2023, 7, 12, 9, 30, 0, 0, time.UTC),
		time.Date(2023, 7, 12, 12, 0, 0, 0, time.UTC),
		time.Date(2023, 7, 12, 17, 45, 0, 0, time.UTC),
		time.Date(2023, 7, 12, 23, 0, 0, 0, time.UTC),
		time.Date(2023, 7, 19, 14, 0, 0, 0, time.UTC),
	})

	require.True(t, result.Defined)
	assert.Equal(t, time.Wednesday, result.Value)
	assert.Equal(t, "Wednesday", WeekdayLabel(result.Value))
}

func TestPeak_MonthMajorityCluster(t *testing.T) {
	result := Peak(MonthDomain, []time.Time{
		date(2023, time.January, 15),
		date(2023, time.January, 20),
		date(2023, time.February, 1),
	})

	require.True(t, result.Defined)
	assert.Equal(t, time.January, result.Value)
	assert.Equal(t, "January", MonthLabel(result.Value))
}

func TestPeak_MonthWrapsYearEnd(t *testing.T) {
	result := Peak(MonthDomain, []time.Time{
		date(2022, time.December, 10),
		date(2023, time.January, 10),
		date(2023, time.February, 10),
	})

	require.True(t, result.Defined)
	assert.Equal(t, time.January, result.Value)
}

func TestPeak_MonthOppositesAreUndefined(t *testing.T) {
	result := Peak(MonthDomain, []time.Time{
		date(2023, time.March, 1),
		date(2023, time.September, 1),
	})

	assert.False(t, result.Defined)
}
