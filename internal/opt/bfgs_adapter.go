package opt

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// BFGSAdapter wraps gonum's quasi-Newton BFGS minimizer to conform to our
// Local interface.
type BFGSAdapter struct {
	maxIters int
	gradTol  float64
}

// NewBFGS creates a BFGS adapter.  maxIters caps the major iterations of a
// single attempt (0 means the gonum default); gradTol below or equal to zero
// keeps the gonum default gradient threshold.
func NewBFGS(maxIters int, gradTol float64) Local {
	return &BFGSAdapter{maxIters: maxIters, gradTol: gradTol}
}

// Minimize runs one BFGS descent from x0.
func (b *BFGSAdapter) Minimize(obj Objective, x0 []float64) Result {
	// gonum requests Func and Grad separately at the same location, so
	// cache the last evaluation to avoid paying for the objective twice.
	var lastX []float64
	var lastF float64
	var lastG []float64
	eval := func(x []float64) (float64, []float64) {
		if lastX != nil && equalVec(lastX, x) {
			return lastF, lastG
		}
		f, g := obj(x)
		lastX = append(lastX[:0], x...)
		lastF, lastG = f, g
		return f, g
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			f, _ := eval(x)
			return f
		},
		Grad: func(grad, x []float64) {
			_, g := eval(x)
			copy(grad, g)
		},
	}

	settings := &optimize.Settings{}
	if b.maxIters > 0 {
		settings.MajorIterations = b.maxIters
	}
	if b.gradTol > 0 {
		settings.GradientThreshold = b.gradTol
	}

	res, err := optimize.Minimize(problem, x0, settings, &optimize.BFGS{})
	if res == nil {
		// The method never produced a location; report the start as a
		// failed attempt.
		f, g := obj(x0)
		return Result{X: append([]float64(nil), x0...), F: f, Grad: g, Converged: false}
	}

	converged := err == nil && res.Status != optimize.Failure &&
		res.Status != optimize.IterationLimit && !math.IsNaN(res.F)

	return Result{
		X:         res.X,
		F:         res.F,
		Grad:      res.Gradient,
		Converged: converged,
	}
}

func equalVec(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
