package search

import (
	"testing"
	"time"

	"github.com/iontrap/projsearch/internal/opt"
)

// stubLocal returns canned results in order, cycling on exhaustion.
type stubLocal struct {
	results []opt.Result
	calls   int
}

func (s *stubLocal) Minimize(obj opt.Objective, x0 []float64) opt.Result {
	res := s.results[s.calls%len(s.results)]
	s.calls++
	if res.X == nil {
		res.X = x0
	}
	return res
}

func constSampler(params []float64) Sampler {
	return func() []float64 { return append([]float64(nil), params...) }
}

func TestOptimizeOverTime_ZeroBudgetRunsOnce(t *testing.T) {
	local := &stubLocal{results: []opt.Result{{F: 0.1, Converged: true}}}
	var outcomes []Outcome
	OptimizeOverTime(nil, constSampler([]float64{1, 2}), local, func(o Outcome) {
		outcomes = append(outcomes, o)
	}, 0)

	if local.calls != 1 {
		t.Errorf("zero budget ran %d attempts, want exactly 1", local.calls)
	}
	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(outcomes))
	}
	if !outcomes[0].Success || outcomes[0].Infidelity != 0.1 {
		t.Errorf("outcome = %+v", outcomes[0])
	}
}

func TestOptimizeOverTime_RunsUntilBudget(t *testing.T) {
	local := &stubLocal{results: []opt.Result{{F: 0.2, Converged: true}}}
	count := 0
	OptimizeOverTime(nil, constSampler([]float64{0}), local, func(o Outcome) {
		count++
		time.Sleep(time.Millisecond)
	}, 20*time.Millisecond)

	if count < 2 {
		t.Errorf("expected multiple attempts within the budget, got %d", count)
	}
	if local.calls != count {
		t.Errorf("every attempt must reach the callback: %d calls, %d outcomes", local.calls, count)
	}
}

func TestOptimizeOverTime_ForwardsFailures(t *testing.T) {
	// Non-converged attempts are forwarded with Success false, not dropped.
	local := &stubLocal{results: []opt.Result{{F: 0.9, Converged: false}}}
	var outcomes []Outcome
	OptimizeOverTime(nil, constSampler([]float64{3}), local, func(o Outcome) {
		outcomes = append(outcomes, o)
	}, 0)

	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(outcomes))
	}
	if outcomes[0].Success {
		t.Error("failed attempt reported as success")
	}
	if outcomes[0].Params[0] != 3 {
		t.Errorf("failed attempt should carry its starting point, got %v", outcomes[0].Params)
	}
}
