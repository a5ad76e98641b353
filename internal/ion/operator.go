package ion

// Operator is a dense complex square matrix over the full 2*ns dimensional
// space, stored row-major.
type Operator struct {
	n int
	a []complex128
}

// NewOperator returns the n x n zero operator.
func NewOperator(n int) *Operator {
	return &Operator{n: n, a: make([]complex128, n*n)}
}

// Identity returns the n x n identity operator.
func Identity(n int) *Operator {
	op := NewOperator(n)
	for i := 0; i < n; i++ {
		op.a[i*n+i] = 1
	}
	return op
}

// Dim returns the matrix dimension.
func (o *Operator) Dim() int { return o.n }

// At returns the (i, j) entry.
func (o *Operator) At(i, j int) complex128 { return o.a[i*o.n+j] }

// Set writes the (i, j) entry.
func (o *Operator) Set(i, j int, v complex128) { o.a[i*o.n+j] = v }

// Mul returns the matrix product o * other.
func (o *Operator) Mul(other *Operator) *Operator {
	if o.n != other.n {
		panic("ion: operator dimension mismatch")
	}
	n := o.n
	out := NewOperator(n)
	for i := 0; i < n; i++ {
		row := o.a[i*n : (i+1)*n]
		outRow := out.a[i*n : (i+1)*n]
		for k, v := range row {
			if v == 0 {
				continue
			}
			otherRow := other.a[k*n : (k+1)*n]
			for j, w := range otherRow {
				outRow[j] += v * w
			}
		}
	}
	return out
}

// MulVec returns the matrix-vector product o * v as a new state.
func (o *Operator) MulVec(s *State) *State {
	if o.n != s.Dim() {
		panic("ion: operator/state dimension mismatch")
	}
	out := make([]complex128, o.n)
	for i := 0; i < o.n; i++ {
		row := o.a[i*o.n : (i+1)*o.n]
		var sum complex128
		for j, v := range row {
			if v != 0 {
				sum += v * s.amps[j]
			}
		}
		out[i] = sum
	}
	return &State{amps: out, ns: s.ns}
}

// Adjoint returns the conjugate transpose of o.
func (o *Operator) Adjoint() *Operator {
	n := o.n
	out := NewOperator(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := o.a[i*n+j]
			out.a[j*n+i] = complex(real(v), -imag(v))
		}
	}
	return out
}

// Projectors returns the diagonal projectors onto the excited and ground
// branches for a space of ns motional levels.
func Projectors(ns int) (excited, ground *Operator) {
	excited = NewOperator(2 * ns)
	ground = NewOperator(2 * ns)
	for i := 0; i < ns; i++ {
		excited.Set(i, i, 1)
		ground.Set(ns+i, ns+i, 1)
	}
	return excited, ground
}
