package circular

import "time"

// SecondsPerWeek is the cycle length of the day-of-week domain.
const SecondsPerWeek = 7 * SecondsPerDay

const microsPerWeek = 7 * microsPerDay

// weekdayLabels is indexed Sunday=0 through Saturday=6.
var weekdayLabels = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// WeekdayLabel returns the English name of the weekday.
func WeekdayLabel(d time.Weekday) string {
	return weekdayLabels[((int(d)%7)+7)%7]
}

// WeekOffset returns the seconds elapsed since the start of t's week
// (Sunday 00:00) in t's location.
func WeekOffset(t time.Time) float64 {
	return float64(int(t.Weekday()))*SecondsPerDay + TimeOfDayOf(t).Seconds()
}

type weekdayCodec struct{}

func (weekdayCodec) Encode(t time.Time) float64 {
	return WeekOffset(t)
}

func (weekdayCodec) Decode(offset float64) time.Weekday {
	us := snapMicros(offset) % microsPerWeek
	if us < 0 {
		us += microsPerWeek
	}
	return time.Weekday(us / microsPerDay)
}

// WeekdayDomain maps timestamps onto a one week circle and reports the day
// of week of the peak.
var WeekdayDomain = NewDomain[time.Time, time.Weekday]("day_of_week", SecondsPerWeek, weekdayCodec{})

// DegreesToWeekday maps an angle in degrees to a day of week.
func DegreesToWeekday(deg float64) time.Weekday {
	return WeekdayDomain.FromAngle(Angle(deg))
}
