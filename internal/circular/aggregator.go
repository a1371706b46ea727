package circular

// Aggregator is a fold over a stream of inputs, independent of the engine
// that drives it.
type Aggregator[S, I, O any] interface {
	Initial() S
	Step(state S, input I) S
	Finish(state S) O
}

// Merger combines two partial states of an aggregator.
type Merger[S any] interface {
	Combine(a, b S) S
}

// PeakAggregator computes the circular peak of a domain.
type PeakAggregator[In, Out any] struct {
	domain Domain[In, Out]
}

// NewPeakAggregator returns an aggregator over d.
func NewPeakAggregator[In, Out any](d Domain[In, Out]) PeakAggregator[In, Out] {
	return PeakAggregator[In, Out]{domain: d}
}

// Domain returns the domain the aggregator maps through.
func (p PeakAggregator[In, Out]) Domain() Domain[In, Out] {
	return p.domain
}

func (p PeakAggregator[In, Out]) Initial() State {
	return Init()
}

func (p PeakAggregator[In, Out]) Step(s State, v In) State {
	return s.Add(p.domain.ToAngle(v))
}

func (p PeakAggregator[In, Out]) Finish(s State) Result[Out] {
	return Finalize(p.domain, s)
}

func (p PeakAggregator[In, Out]) Combine(a, b State) State {
	return a.Merge(b)
}

// Fold runs agg over inputs in order.
func Fold[S, I, O any](agg Aggregator[S, I, O], inputs []I) O {
	state := agg.Initial()
	for _, in := range inputs {
		state = agg.Step(state, in)
	}
	return agg.Finish(state)
}

// Accumulate folds inputs into an existing state without finishing it.
func Accumulate[S, I, O any](agg Aggregator[S, I, O], state S, inputs []I) S {
	for _, in := range inputs {
		state = agg.Step(state, in)
	}
	return state
}

// Peak is shorthand for folding values through a domain.
func Peak[In, Out any](d Domain[In, Out], values []In) Result[Out] {
	return Fold[State, In, Result[Out]](NewPeakAggregator(d), values)
}
