package circular

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// SecondsPerDay is the cycle length of the time-of-day domain.
	SecondsPerDay = 86400.0

	microsPerSecond = int64(1_000_000)
	microsPerDay    = int64(SecondsPerDay) * microsPerSecond
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// NewTimeOfDay returns the time of day h:m:s.
func NewTimeOfDay(h, m, s int) TimeOfDay {
	return TimeOfDay{Hour: h, Minute: m, Second: s}
}

// TimeOfDayOf returns the wall-clock part of t in t's location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
	}
}

// ParseTimeOfDay parses "15:04:05", "15:04:05.000123" or "15:04".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
}

// Seconds returns the offset from midnight in seconds.
func (t TimeOfDay) Seconds() float64 {
	return float64(t.Hour*3600+t.Minute*60+t.Second) + float64(t.Nanosecond)/1e9
}

// String formats the time as 15:04:05, followed by the fractional second
// when it is not zero.
func (t TimeOfDay) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond != 0 {
		frac := strings.TrimRight(fmt.Sprintf("%09d", t.Nanosecond), "0")
		s += "." + frac
	}
	return s
}

// snapMicros rounds a seconds offset to whole microseconds. It absorbs the
// error left by the degree round trip so that values sitting exactly on a
// second or day boundary do not fall into the previous bucket.
func snapMicros(offset float64) int64 {
	return int64(math.Round(offset * float64(microsPerSecond)))
}

type timeOfDayCodec struct{}

func (timeOfDayCodec) Encode(v TimeOfDay) float64 {
	return v.Seconds()
}

func (timeOfDayCodec) Decode(offset float64) TimeOfDay {
	us := snapMicros(offset) % microsPerDay
	if us < 0 {
		us += microsPerDay
	}
	secs := us / microsPerSecond
	return TimeOfDay{
		Hour:       int(secs / 3600),
		Minute:     int(secs % 3600 / 60),
		Second:     int(secs % 60),
		Nanosecond: int(us%microsPerSecond) * 1000,
	}
}

// TimeOfDayDomain maps times of day onto a 24 hour circle.
var TimeOfDayDomain = NewDomain[TimeOfDay, TimeOfDay]("time_of_day", SecondsPerDay, timeOfDayCodec{})

// DegreesToTimeOfDay maps an angle in degrees to a time of day.
func DegreesToTimeOfDay(deg float64) TimeOfDay {
	return TimeOfDayDomain.FromAngle(Angle(deg))
}
