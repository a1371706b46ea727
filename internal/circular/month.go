package circular

import (
	"math"
	"time"
)

// MonthsPerYear is the cycle length of the month domain.
const MonthsPerYear = 12.0

var monthLabels = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthLabel returns the English name of m.
func MonthLabel(m time.Month) string {
	return monthLabels[((int(m)-1)%12+12)%12]
}

type monthCodec struct{}

func (monthCodec) Encode(t time.Time) float64 {
	return float64(t.Month() - 1)
}

// Decode rounds to the nearest month. Month has only twelve buckets, so
// flooring would let rounding error drop a value into the previous month.
func (monthCodec) Decode(offset float64) time.Month {
	m := int(math.Round(offset)) % 12
	if m < 0 {
		m += 12
	}
	return time.Month(m + 1)
}

// MonthDomain maps dates onto a twelve month circle.
var MonthDomain = NewDomain[time.Time, time.Month]("month", MonthsPerYear, monthCodec{})

// DegreesToMonth maps an angle in degrees to a month.
func DegreesToMonth(deg float64) time.Month {
	return MonthDomain.FromAngle(Angle(deg))
}
