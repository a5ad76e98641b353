package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/iontrap/projsearch/internal/opt"
	"github.com/iontrap/projsearch/internal/params"
	"github.com/iontrap/projsearch/internal/search"
	"github.com/iontrap/projsearch/internal/store"
)

// runJob executes one search job in the background.  The job's best filter
// is the single consumer of attempt outcomes, so updating the job manager,
// the broadcaster and the improvement trace from its callbacks never races.
func runJob(ctx context.Context, jm *JobManager, resultStore store.Store, dataDir, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) { j.State = StateRunning }); err != nil {
		return err
	}
	slog.Info("Starting job", "job_id", jobID, "line", job.Config.Line)

	rp, err := params.ParseMachineLine(job.Config.Line)
	if err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("failed to parse run line: %w", err))
		return err
	}

	basis, seq, err := search.BuildBasis(rp.State, rp.Sequence, rp.Laser)
	if err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("failed to build basis: %w", err))
		return err
	}
	objective := search.BuildObjective(basis, seq)

	couplings := search.Couplings(rp.Sequence, rp.Laser)
	rng := rand.New(rand.NewSource(job.Config.Seed))
	sampler, err := search.NewSampler(rp.Sequence, couplings, job.Config.PeriodsFactor, rng)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	var local opt.Local
	switch job.Config.Method {
	case "", "bfgs":
		local = opt.NewBFGS(0, 0)
	case "mayfly":
		ranges, rerr := search.SampleRanges(rp.Sequence, couplings, job.Config.PeriodsFactor)
		if rerr != nil {
			markJobFailed(jm, jobID, rerr)
			return rerr
		}
		local = opt.NewMayfly(100, 20, job.Config.Seed, ranges)
	default:
		err := fmt.Errorf("unknown method: %s", job.Config.Method)
		markJobFailed(jm, jobID, err)
		return err
	}

	trace, err := store.NewTraceWriter(dataDir, jobID, false)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}
	defer trace.Close()

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	attempts := 0
	improvements := 0
	filter := search.NewBestFilter(func(o search.Outcome) {
		improvements++
		jm.UpdateJob(jobID, func(j *Job) {
			j.BestInfidelity = o.Infidelity
			j.BestParams = o.Params
			j.Improvements = improvements
		})
		jm.broadcaster.Broadcast(ImprovementEvent{
			JobID:      jobID,
			State:      StateRunning,
			Attempt:    attempts,
			Infidelity: o.Infidelity,
			Timestamp:  time.Now(),
		})
		if werr := trace.Write(store.ImprovementEntry{
			Attempt:    attempts,
			Infidelity: o.Infidelity,
			Parameters: o.Params,
			Timestamp:  time.Now(),
		}); werr != nil {
			slog.Error("Failed to write improvement trace", "job_id", jobID, "error", werr)
		}
	}, nil, nil, nil)

	start := time.Now()
	budget := time.Duration(rp.Time * float64(time.Second))
	search.OptimizeOverTime(objective, sampler, local, func(o search.Outcome) {
		attempts++
		jm.UpdateJob(jobID, func(j *Job) { j.Attempts = attempts })
		filter.Apply(o)
	}, budget)
	elapsed := time.Since(start)

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	endTime := time.Now()
	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.EndTime = &endTime
	}); err != nil {
		return err
	}

	job, _ = jm.GetJob(jobID)
	if resultStore != nil && len(job.BestParams) > 0 {
		result := store.NewResult(jobID, job.BestInfidelity, job.BestParams, attempts, improvements, job.Config)
		if err := resultStore.SaveResult(jobID, result); err != nil {
			slog.Error("Failed to save result", "job_id", jobID, "error", err)
		}
	}
	if err := trace.Flush(); err != nil {
		slog.Warn("Failed to flush improvement trace", "job_id", jobID, "error", err)
	}

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"attempts", attempts,
		"improvements", improvements,
		"best_infidelity", job.BestInfidelity,
	)

	jm.broadcaster.Broadcast(ImprovementEvent{
		JobID:      jobID,
		State:      StateCompleted,
		Attempt:    attempts,
		Infidelity: job.BestInfidelity,
		Timestamp:  time.Now(),
	})
	return nil
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}
