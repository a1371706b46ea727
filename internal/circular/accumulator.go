package circular

import "math"

// DegeneracyThreshold is the resultant length below which no direction is
// defined.
const DegeneracyThreshold = 1e-10

// State is the running vector sum of an aggregation pass.
//
// State is a value: Add and Merge return a new State and never change the
// receiver, so partial states can be built on independent goroutines and
// combined afterwards. Summation is commutative and associative in exact
// arithmetic; in floating point the order of additions can change the last
// bits of X and Y. That difference is expected and bounded.
type State struct {
	X float64 `json:"x"` // sum of sine components
	Y float64 `json:"y"` // sum of cosine components
}

// Init returns the empty state.
func Init() State {
	return State{}
}

// Add folds the unit vector of a into the state.
func (s State) Add(a Angle) State {
	x, y := a.UnitVector()
	return State{X: s.X + x, Y: s.Y + y}
}

// Merge combines two partial states.
func (s State) Merge(other State) State {
	return State{X: s.X + other.X, Y: s.Y + other.Y}
}

// Magnitude is the Euclidean distance of the state from the origin.
func (s State) Magnitude() float64 {
	return math.Hypot(s.X, s.Y)
}

// Degenerate reports whether the accumulated vectors cancel out.
func (s State) Degenerate() bool {
	return s.Magnitude() < DegeneracyThreshold
}

// Direction returns the angle of the resultant vector in [0, 360) and false
// when the state is degenerate.
func (s State) Direction() (Angle, bool) {
	if s.Degenerate() {
		return 0, false
	}
	return Reduce(Atan2d(s.X, s.Y)), true
}
