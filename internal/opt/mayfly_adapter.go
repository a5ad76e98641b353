package opt

import (
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// MayflyAdapter wraps the external Mayfly library as a gradient-free
// alternative to BFGS.  Each Minimize call runs one bounded population
// search; the gradient of the objective is ignored.
type MayflyAdapter struct {
	maxIters int
	popSize  int
	seed     int64
	calls    int64
	upper    []float64
}

// NewMayfly creates a new Mayfly optimizer adapter.  upper holds the
// per-component upper sampling bounds of the parameter space (lower bounds
// are zero).
func NewMayfly(maxIters, popSize int, seed int64, upper []float64) Local {
	return &MayflyAdapter{
		maxIters: maxIters,
		popSize:  popSize,
		seed:     seed,
		upper:    upper,
	}
}

// Minimize executes the Mayfly optimization using the external library.
// The starting point only seeds the fallback; the population is drawn by
// the library itself.
func (m *MayflyAdapter) Minimize(obj Objective, x0 []float64) Result {
	config := mayfly.NewDefaultConfig()

	config.ObjectiveFunc = func(x []float64) float64 {
		f, _ := obj(x)
		return f
	}
	config.ProblemSize = len(x0)
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize

	// The external library uses scalar bounds, so take the widest
	// per-component range.
	config.LowerBound = 0
	config.UpperBound = maxOf(m.upper)

	// Advance the seed per attempt so repeated calls explore different
	// populations; a fixed seed would make every restart identical.
	m.calls++
	config.Rand = rand.New(rand.NewSource(m.seed + m.calls))

	result, err := mayfly.Optimize(config)
	if err != nil {
		f, g := obj(x0)
		return Result{X: append([]float64(nil), x0...), F: f, Grad: g, Converged: false}
	}

	return Result{
		X:         result.GlobalBest.Position,
		F:         result.GlobalBest.Cost,
		Converged: true,
	}
}

func maxOf(xs []float64) float64 {
	out := 0.0
	for _, x := range xs {
		if x > out {
			out = x
		}
	}
	return out
}
