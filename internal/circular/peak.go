package circular

// Result is the outcome of an aggregation pass. Defined is false when no
// observations were accumulated or they cancelled each other out; Value is
// then the zero value and must be ignored.
type Result[Out any] struct {
	Value   Out
	Angle   Angle
	Defined bool
}

// Undefined returns the result of a pass with no direction.
func Undefined[Out any]() Result[Out] {
	return Result[Out]{}
}

// Finalize converts the state into a domain value through d.
// It does not modify s and returns the same answer for the same state.
func Finalize[In, Out any](d Domain[In, Out], s State) Result[Out] {
	angle, ok := s.Direction()
	if !ok {
		return Undefined[Out]()
	}
	return Result[Out]{
		Value:   d.FromAngle(angle),
		Angle:   angle,
		Defined: true,
	}
}
