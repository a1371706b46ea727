package circular

// Codec converts between a domain value and its offset from the start of
// the cycle, expressed in the unit of the domain's cycle length.
type Codec[In, Out any] interface {
	Encode(v In) float64
	Decode(offset float64) Out
}

// Domain maps values of a cyclic domain onto angles and back.
type Domain[In, Out any] struct {
	name  string
	cycle float64
	codec Codec[In, Out]
}

// NewDomain creates a domain with the given cycle length. cycle must be
// positive.
func NewDomain[In, Out any](name string, cycle float64, codec Codec[In, Out]) Domain[In, Out] {
	return Domain[In, Out]{name: name, cycle: cycle, codec: codec}
}

// Name returns the domain name.
func (d Domain[In, Out]) Name() string {
	return d.name
}

// Cycle returns the cycle length.
func (d Domain[In, Out]) Cycle() float64 {
	return d.cycle
}

// ToAngle maps v to an angle. The result is not reduced.
func (d Domain[In, Out]) ToAngle(v In) Angle {
	return Angle(d.codec.Encode(v) / d.cycle * FullTurn)
}

// FromAngle maps any angle back to a domain value.
func (d Domain[In, Out]) FromAngle(a Angle) Out {
	return d.codec.Decode(float64(Reduce(a)) * d.cycle / FullTurn)
}

// Finalize extracts the peak value from an accumulated state.
func (d Domain[In, Out]) Finalize(s State) Result[Out] {
	return Finalize(d, s)
}
