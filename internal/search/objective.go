package search

import (
	"github.com/iontrap/projsearch/internal/ion"
)

// ObjectiveFunc maps an interleaved parameter vector [t0, phi0, t1, phi1,
// ...] to the infidelity of the sequence and its gradient.  Infidelity lies
// in [0, 1]; a perfect sequence yields 0.
type ObjectiveFunc func(params []float64) (float64, []float64)

// BuildObjective assembles the infidelity objective for the given basis and
// sequence.  The first basis state plays the target role and is scored with
// the ground-branch projector; every other state is a distractor scored with
// the excited-branch projector.  Downstream result files depend on this role
// assignment, so it must not be swapped silently.
func BuildObjective(basis []*ion.State, seq *ion.Sequence) ObjectiveFunc {
	excited, ground := ion.Projectors(seq.Ns())
	projectors := make([]*ion.Operator, len(basis))
	projectors[0] = ground
	for i := 1; i < len(basis); i++ {
		projectors[i] = excited
	}
	scale := 1.0 / float64(len(basis))

	return func(params []float64) (float64, []float64) {
		op := seq.Evaluate(params)

		// Leaked population per role, with the projected states kept for
		// the gradient pass so the composed operator is built exactly once.
		projections := make([]*ion.State, len(basis))
		infidelity := 0.0
		for r, state := range basis {
			proj := projectors[r].MulVec(op.MulVec(state))
			projections[r] = proj
			n := proj.Norm()
			infidelity += n * n
		}

		grad := make([]float64, len(params))
		for i, dop := range seq.Derivative(params) {
			var sum float64
			for r, state := range basis {
				dproj := projectors[r].MulVec(dop.MulVec(state))
				sum += real(projections[r].Dot(dproj))
			}
			grad[i] = 2 * scale * sum
		}
		return infidelity * scale, grad
	}
}
