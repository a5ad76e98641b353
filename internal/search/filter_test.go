package search

import "testing"

func applyAll(f *BestFilter, infidelities []float64) {
	for _, v := range infidelities {
		f.Apply(Outcome{Infidelity: v, Success: true})
	}
}

func TestBestFilter_StrictImprovement(t *testing.T) {
	var success, failure []float64
	f := NewBestFilter(
		func(o Outcome) { success = append(success, o.Infidelity) },
		func(o Outcome) { failure = append(failure, o.Infidelity) },
		nil, nil)

	applyAll(f, []float64{0.5, 0.5, 0.3, 0.9, 0.1})

	wantSuccess := []float64{0.5, 0.3, 0.1}
	wantFailure := []float64{0.5, 0.9}
	if len(success) != len(wantSuccess) {
		t.Fatalf("success = %v, want %v", success, wantSuccess)
	}
	for i := range wantSuccess {
		if success[i] != wantSuccess[i] {
			t.Errorf("success[%d] = %g, want %g", i, success[i], wantSuccess[i])
		}
	}
	// Ties are not improvements under the default comparison.
	if len(failure) != len(wantFailure) {
		t.Fatalf("failure = %v, want %v", failure, wantFailure)
	}
	for i := range wantFailure {
		if failure[i] != wantFailure[i] {
			t.Errorf("failure[%d] = %g, want %g", i, failure[i], wantFailure[i])
		}
	}

	best, ok := f.Best()
	if !ok || best != 0.1 {
		t.Errorf("Best() = %g, %v; want 0.1, true", best, ok)
	}
}

func TestBestFilter_DropsFailedAttempts(t *testing.T) {
	fired := 0
	f := NewBestFilter(func(o Outcome) { fired++ }, func(o Outcome) { fired++ }, nil, nil)
	f.Apply(Outcome{Infidelity: 0.01, Success: false})
	if fired != 0 {
		t.Error("unconverged outcome fired a branch")
	}
	if _, ok := f.Best(); ok {
		t.Error("unconverged outcome recorded as best")
	}
}

func TestBestFilter_NilFailureBranch(t *testing.T) {
	f := NewBestFilter(func(o Outcome) {}, nil, nil, nil)
	applyAll(f, []float64{0.5, 0.9}) // the 0.9 hits the nil failure branch
	if best, _ := f.Best(); best != 0.5 {
		t.Errorf("Best() = %g, want 0.5", best)
	}
}

func TestBestFilter_SeededInitial(t *testing.T) {
	var success []float64
	initial := 0.2
	f := NewBestFilter(func(o Outcome) { success = append(success, o.Infidelity) }, nil, nil, &initial)

	applyAll(f, []float64{0.5, 0.1})
	if len(success) != 1 || success[0] != 0.1 {
		t.Errorf("success = %v, want only the value beating the seed", success)
	}
}

func TestBestFilter_CustomCompare(t *testing.T) {
	// Non-strict comparison accepts ties.
	var success []float64
	f := NewBestFilter(
		func(o Outcome) { success = append(success, o.Infidelity) },
		nil,
		func(next, best float64) bool { return next <= best },
		nil)

	applyAll(f, []float64{0.5, 0.5})
	if len(success) != 2 {
		t.Errorf("success = %v, want both tied outcomes", success)
	}
}
