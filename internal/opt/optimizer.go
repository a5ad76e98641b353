package opt

// Objective is a function to minimize together with its analytic gradient.
// The returned gradient has the same length as x.
type Objective func(x []float64) (float64, []float64)

// Result holds the outcome of one local minimization attempt.
type Result struct {
	X         []float64
	F         float64
	Grad      []float64
	Converged bool
}

// Local defines a local minimization algorithm interface.
type Local interface {
	// Minimize runs one local minimization of obj from the starting point
	// x0 to the method's own convergence.  Non-convergence is reported
	// through Result.Converged rather than an error: failed attempts are
	// data for the caller, not control flow.
	Minimize(obj Objective, x0 []float64) Result
}
