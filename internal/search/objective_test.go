package search

import (
	"math"
	"math/rand"
	"testing"

	"github.com/iontrap/projsearch/internal/ion"
	"github.com/iontrap/projsearch/internal/opt"
)

func twoLabelObjective(t *testing.T) (ObjectiveFunc, int) {
	t.Helper()
	spec := ion.Spec{
		{Branch: ion.Ground, Level: 0}:  1,
		{Branch: ion.Excited, Level: 1}: 1,
	}
	basis, seq, err := BuildBasis(spec, []int{1, 0}, testLaser)
	if err != nil {
		t.Fatalf("BuildBasis failed: %v", err)
	}
	return BuildObjective(basis, seq), seq.NumParams()
}

func TestObjective_IdentityPoint(t *testing.T) {
	// With zero durations the sequence is the identity.  The target keeps
	// half its population on the ground branch and the orthogonal partner
	// keeps half on the excited branch, so each role leaks 1/2 and the mean
	// infidelity is exactly 1/2.
	obj, n := twoLabelObjective(t)
	f, grad := obj(make([]float64, n))
	if math.Abs(f-0.5) > 1e-12 {
		t.Errorf("infidelity at identity = %g, want 0.5", f)
	}
	if len(grad) != n {
		t.Errorf("gradient length = %d, want %d", len(grad), n)
	}
}

func TestObjective_Bounded(t *testing.T) {
	obj, n := twoLabelObjective(t)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		params := make([]float64, n)
		for j := range params {
			params[j] = rng.Float64() * 10
		}
		f, _ := obj(params)
		if f < -1e-12 || f > 1+1e-12 {
			t.Fatalf("infidelity %g outside [0, 1] at %v", f, params)
		}
	}
}

func TestObjective_GradientFiniteDifference(t *testing.T) {
	const h = 1e-6
	obj, n := twoLabelObjective(t)
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 5; trial++ {
		params := make([]float64, n)
		for j := range params {
			params[j] = rng.Float64() * 5
		}
		_, grad := obj(params)
		for k := range params {
			plus := append([]float64(nil), params...)
			minus := append([]float64(nil), params...)
			plus[k] += h
			minus[k] -= h
			fp, _ := obj(plus)
			fm, _ := obj(minus)
			fd := (fp - fm) / (2 * h)
			if math.Abs(fd-grad[k]) > 1e-5 {
				t.Fatalf("gradient[%d] = %g, finite difference %g at %v", k, grad[k], fd, params)
			}
		}
	}
}

func TestSearchMakesProgress(t *testing.T) {
	// One local attempt from a sampled start must beat the 1/2 guesswork
	// baseline of the two-label target.
	spec := ion.Spec{
		{Branch: ion.Ground, Level: 0}:  1,
		{Branch: ion.Excited, Level: 1}: 1,
	}
	basis, seq, err := BuildBasis(spec, []int{1}, testLaser)
	if err != nil {
		t.Fatalf("BuildBasis failed: %v", err)
	}
	obj := BuildObjective(basis, seq)

	couplings := Couplings([]int{1}, testLaser)
	sample, err := NewSampler([]int{1}, couplings, 3, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("NewSampler failed: %v", err)
	}

	local := opt.NewBFGS(0, 0)
	res := local.Minimize(opt.Objective(obj), sample())
	if res.F >= 0.5 {
		t.Errorf("one attempt reached infidelity %g, want below the 0.5 baseline", res.F)
	}
}

func TestObjective_SingleLabelPerfectPulse(t *testing.T) {
	// The target role is scored with the ground projector: population the
	// sequence leaves on the ground branch counts as infidelity.  A lone
	// |g0> target therefore scores 1 at the identity, and a resonant blue
	// pi pulse that fully excites it scores 0.
	l := ion.Laser{LambDicke: 0.1, BaseRabi: 1}
	spec := ion.Spec{{Branch: ion.Ground, Level: 0}: 1}
	basis, seq, err := BuildBasis(spec, []int{1}, l)
	if err != nil {
		t.Fatalf("BuildBasis failed: %v", err)
	}
	obj := BuildObjective(basis, seq)

	f0, _ := obj([]float64{0, 0})
	if math.Abs(f0-1) > 1e-12 {
		t.Errorf("infidelity at identity = %g, want 1", f0)
	}

	omega := l.RabiMod(0, 1)
	fPi, _ := obj([]float64{math.Pi / omega, 0})
	if math.Abs(fPi) > 1e-10 {
		t.Errorf("infidelity after pi pulse = %g, want 0", fPi)
	}
}
