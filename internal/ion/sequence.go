package ion

import "fmt"

// Sequence is an ordered list of sideband pulses sharing one truncated
// space.  The first pulse in the list is the first applied to a state, so
// the composed operator is U_n ... U_1.  A Sequence is immutable once built.
type Sequence struct {
	ns     int
	pulses []*Sideband
}

// NewSequence builds the pulses for the given signed sideband orders.
func NewSequence(orders []int, ns int, laser Laser) (*Sequence, error) {
	seq := &Sequence{ns: ns}
	for _, order := range orders {
		sb, err := NewSideband(ns, order, laser)
		if err != nil {
			return nil, err
		}
		seq.pulses = append(seq.pulses, sb)
	}
	return seq, nil
}

// Len returns the number of pulses.
func (q *Sequence) Len() int { return len(q.pulses) }

// Ns returns the number of motional levels of the composed space.
func (q *Sequence) Ns() int { return q.ns }

// Pulses returns the pulses in application order.
func (q *Sequence) Pulses() []*Sideband { return q.pulses }

// NumParams returns the parameter vector length: one (duration, phase) pair
// per pulse, interleaved in application order.
func (q *Sequence) NumParams() int { return 2 * len(q.pulses) }

func (q *Sequence) checkParams(params []float64) {
	if len(params) != q.NumParams() {
		panic(fmt.Sprintf("%v: got %d, want %d", ErrBadParams, len(params), q.NumParams()))
	}
}

// Evaluate composes the full sequence unitary for the interleaved parameter
// vector [t0, phi0, t1, phi1, ...].
func (q *Sequence) Evaluate(params []float64) *Operator {
	q.checkParams(params)
	op := Identity(2 * q.ns)
	for i, sb := range q.pulses {
		op = sb.U(params[2*i], params[2*i+1]).Mul(op)
	}
	return op
}

// Derivative returns one operator per parameter: the derivative of the
// composed unitary with respect to that parameter.  Prefix and suffix
// products are shared across parameters so each pulse unitary is built once.
func (q *Sequence) Derivative(params []float64) []*Operator {
	q.checkParams(params)
	n := len(q.pulses)
	units := make([]*Operator, n)
	for i, sb := range q.pulses {
		units[i] = sb.U(params[2*i], params[2*i+1])
	}

	// prefix[i] = U_{i-1} ... U_0, suffix[i] = U_{n-1} ... U_{i+1}
	prefix := make([]*Operator, n+1)
	prefix[0] = Identity(2 * q.ns)
	for i := 0; i < n; i++ {
		prefix[i+1] = units[i].Mul(prefix[i])
	}
	suffix := make([]*Operator, n+1)
	suffix[n] = Identity(2 * q.ns)
	for i := n - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1].Mul(units[i])
	}

	out := make([]*Operator, 2*n)
	for i, sb := range q.pulses {
		t, phi := params[2*i], params[2*i+1]
		after := suffix[i+1]
		before := prefix[i]
		out[2*i] = after.Mul(sb.DUDt(t, phi)).Mul(before)
		out[2*i+1] = after.Mul(sb.DUDPhase(t, phi)).Mul(before)
	}
	return out
}

// Trace returns the state after each stage of the sequence, starting with
// the input state itself: len(result) = Len() + 1.
func (q *Sequence) Trace(params []float64, state *State) []*State {
	q.checkParams(params)
	out := make([]*State, 0, len(q.pulses)+1)
	out = append(out, state)
	cur := state
	for i, sb := range q.pulses {
		cur = sb.U(params[2*i], params[2*i+1]).MulVec(cur)
		out = append(out, cur)
	}
	return out
}
