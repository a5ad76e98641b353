package search

import (
	"log/slog"
	"time"

	"github.com/iontrap/projsearch/internal/opt"
)

// Outcome is the result of one optimization attempt.
type Outcome struct {
	Infidelity float64
	Params     []float64
	Grad       []float64
	Success    bool
}

// Callback consumes one attempt outcome.  It runs synchronously: the next
// attempt does not start until the callback returns, so callback-side state
// never races.
type Callback func(Outcome)

// OptimizeOverTime repeatedly minimizes obj from fresh sampled starting
// points until the wall-clock budget elapses, forwarding every attempt's
// outcome to the callback.  The budget is soft: it is checked between
// attempts only, so the loop can overshoot by up to one local minimization,
// and a zero budget still performs exactly one attempt.  Attempts that fail
// to converge are forwarded with Success false and the loop continues.
func OptimizeOverTime(obj ObjectiveFunc, sample Sampler, local opt.Local, callback Callback, budget time.Duration) {
	start := time.Now()
	attempts := 0
	for {
		res := local.Minimize(opt.Objective(obj), sample())
		attempts++
		callback(Outcome{
			Infidelity: res.F,
			Params:     res.X,
			Grad:       res.Grad,
			Success:    res.Converged,
		})
		if time.Since(start) >= budget {
			break
		}
	}
	slog.Debug("anytime optimization finished",
		"attempts", attempts,
		"elapsed", time.Since(start),
		"budget", budget,
	)
}
