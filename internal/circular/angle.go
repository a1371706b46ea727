// Package circular implements the circular-mean ("peak") aggregation over
// cyclic domains such as time of day, day of week and month of year.
//
// Observations are mapped onto a circle, summed as unit vectors and the
// direction of the resultant vector is mapped back into the domain.
package circular

import "math"

// FullTurn is the number of degrees in one cycle.
const FullTurn = 360.0

// Angle is a direction in degrees. Values produced by ToAngle are not
// reduced; call Reduce to bring them into [0, 360).
type Angle float64

// Reduce maps any finite angle into [0, 360). It is ((a mod 360) + 360) mod
// 360, arranged so that angles already in range come back bit for bit.
func Reduce(a Angle) Angle {
	r := math.Mod(float64(a), FullTurn)
	if r < 0 {
		r += FullTurn
	}
	// a tiny negative remainder plus 360 rounds up to 360; -0 becomes 0
	if r >= FullTurn || r == 0 {
		return 0
	}
	return Angle(r)
}

// Reduce returns the angle reduced into [0, 360).
func (a Angle) Reduce() Angle {
	return Reduce(a)
}

// Radians converts the angle to radians.
func (a Angle) Radians() float64 {
	return float64(a) * math.Pi / 180
}

// UnitVector returns the (sin, cos) components of the angle.
// Angle 0 points along the positive cosine axis.
func (a Angle) UnitVector() (x, y float64) {
	return math.Sincos(a.Radians())
}

// Atan2d is atan2 in degrees. The sine component comes first so that the
// result matches the reference direction used by UnitVector.
func Atan2d(x, y float64) Angle {
	return Angle(math.Atan2(x, y) * 180 / math.Pi)
}
