package circular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeakAggregator_Fold(t *testing.T) {
	agg := NewPeakAggregator(TimeOfDayDomain)

	result := Fold[State, TimeOfDay, Result[TimeOfDay]](agg, []TimeOfDay{
		NewTimeOfDay(8, 0, 0),
		NewTimeOfDay(10, 0, 0),
	})

	require.True(t, result.Defined)
	assert.Equal(t, NewTimeOfDay(9, 0, 0), result.Value)
}

func TestPeakAggregator_CombineMatchesSequential(t *testing.T) {
	agg := NewPeakAggregator(MonthDomain)
	values := []time.Time{
		date(2023, time.May, 1),
		date(2023, time.June, 1),
		date(2023, time.June, 9),
		date(2023, time.July, 1),
		date(2023, time.August, 1),
	}

	sequential := Accumulate[State, time.Time, Result[time.Month]](agg, agg.Initial(), values)
	left := Accumulate[State, time.Time, Result[time.Month]](agg, agg.Initial(), values[:2])
	right := Accumulate[State, time.Time, Result[time.Month]](agg, agg.Initial(), values[2:])
	merged := agg.Combine(left, right)

	assert.InDelta(t, sequential.X, merged.X, 1e-12)
	assert.InDelta(t, sequential.Y, merged.Y, 1e-12)
	assert.Equal(t, agg.Finish(sequential).Value, agg.Finish(merged).Value)
	assert.InDelta(t, float64(agg.Finish(sequential).Angle), float64(agg.Finish(merged).Angle), 1e-9)
	assert.Equal(t, time.June, agg.Finish(merged).Value)
}

func TestPeakAggregator_Domain(t *testing.T) {
	agg := NewPeakAggregator(WeekdayDomain)
	assert.Equal(t, "day_of_week", agg.Domain().Name())
	assert.Equal(t, Init(), agg.Initial())
}
