package store

import (
	"fmt"
	"time"
)

// JobConfig holds the configuration of a search job.  It mirrors the server
// job config to avoid an import cycle with the server package.
type JobConfig struct {
	// Line is the machine-readable run line: state, sequence, laser, time.
	Line string `json:"line"`
	// Method selects the local minimizer: "bfgs" or "mayfly".
	Method string `json:"method"`
	// PeriodsFactor scales the duration sampling range of each restart.
	PeriodsFactor float64 `json:"periodsFactor,omitempty"`
	// Seed seeds the restart sampler for reproducible runs.
	Seed int64 `json:"seed"`
}

// Result is the persisted outcome of a finished (or still improving) search
// job: the best parameter vector found so far and counters describing how
// much work produced it.  The full improvement history lives in the
// per-job trace.jsonl next to it.
type Result struct {
	// JobID is the unique identifier of the search job.
	JobID string `json:"jobId"`

	// Infidelity is the best (lowest) infidelity found so far.
	Infidelity float64 `json:"infidelity"`

	// Parameters is the interleaved [t0, phi0, t1, phi1, ...] vector that
	// achieved Infidelity.
	Parameters []float64 `json:"parameters"`

	// Attempts counts every local minimization the job ran.
	Attempts int `json:"attempts"`

	// Improvements counts how many attempts improved on the best so far.
	Improvements int `json:"improvements"`

	// Timestamp records when this result was written.
	Timestamp time.Time `json:"timestamp"`

	// Config holds the job configuration the result was produced under.
	Config JobConfig `json:"config"`
}

// NewResult builds a persistable result from job state.
func NewResult(jobID string, infidelity float64, parameters []float64, attempts, improvements int, config JobConfig) *Result {
	return &Result{
		JobID:        jobID,
		Infidelity:   infidelity,
		Parameters:   parameters,
		Attempts:     attempts,
		Improvements: improvements,
		Timestamp:    time.Now(),
		Config:       config,
	}
}

// Info is result metadata without the parameter payload, for cheap listing.
type Info struct {
	JobID      string    `json:"jobId"`
	Infidelity float64   `json:"infidelity"`
	Attempts   int       `json:"attempts"`
	Timestamp  time.Time `json:"timestamp"`
	Line       string    `json:"line"`
	Method     string    `json:"method"`
}

// ToInfo strips a result down to its metadata.
func (r *Result) ToInfo() Info {
	return Info{
		JobID:      r.JobID,
		Infidelity: r.Infidelity,
		Attempts:   r.Attempts,
		Timestamp:  r.Timestamp,
		Line:       r.Config.Line,
		Method:     r.Config.Method,
	}
}

// Validate checks that a result is complete enough to persist.
func (r *Result) Validate() error {
	if r.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if len(r.Parameters) == 0 {
		return &ValidationError{Field: "Parameters", Reason: "cannot be empty"}
	}
	if len(r.Parameters)%2 != 0 {
		return &ValidationError{Field: "Parameters", Reason: "length must be even (duration, phase per pulse)"}
	}
	if r.Infidelity < 0 {
		return &ValidationError{Field: "Infidelity", Reason: "cannot be negative"}
	}
	if r.Attempts <= 0 {
		return &ValidationError{Field: "Attempts", Reason: "must be positive"}
	}
	if r.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if r.Config.Line == "" {
		return &ValidationError{Field: "Config.Line", Reason: "cannot be empty"}
	}
	return nil
}

// ValidationError represents a result validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Reason)
}
