package server

import (
	"context"
	"testing"

	"github.com/iontrap/projsearch/internal/store"
)

func TestRunJob_Completes(t *testing.T) {
	dataDir := t.TempDir()
	resultStore, err := store.NewFSStore(dataDir)
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	if err := runJob(context.Background(), jm, resultStore, dataDir, job.ID); err != nil {
		t.Fatalf("runJob failed: %v", err)
	}

	done, _ := jm.GetJob(job.ID)
	if done.State != StateCompleted {
		t.Errorf("job state = %s, want completed", done.State)
	}
	if done.Attempts < 1 {
		t.Errorf("job ran %d attempts, want at least 1", done.Attempts)
	}
	if done.EndTime == nil {
		t.Error("completed job has no end time")
	}

	// The trace file exists even if the single attempt produced no
	// improvement.
	if _, err := store.ReadTrace(dataDir, job.ID); err != nil {
		t.Errorf("trace not readable: %v", err)
	}
}

func TestRunJob_BadLineFails(t *testing.T) {
	dataDir := t.TempDir()
	jm := NewJobManager()
	job := jm.CreateJob(JobConfig{Line: "state={g0:1}"})

	if err := runJob(context.Background(), jm, nil, dataDir, job.ID); err == nil {
		t.Fatal("runJob should fail on a bad line")
	}
	failed, _ := jm.GetJob(job.ID)
	if failed.State != StateFailed {
		t.Errorf("job state = %s, want failed", failed.State)
	}
	if failed.Error == "" {
		t.Error("failed job carries no error message")
	}
}

func TestRunJob_UnknownMethodFails(t *testing.T) {
	dataDir := t.TempDir()
	jm := NewJobManager()
	config := testJobConfig()
	config.Method = "annealing"
	job := jm.CreateJob(config)

	if err := runJob(context.Background(), jm, nil, dataDir, job.ID); err == nil {
		t.Fatal("runJob should reject an unknown method")
	}
	failed, _ := jm.GetJob(job.ID)
	if failed.State != StateFailed {
		t.Errorf("job state = %s, want failed", failed.State)
	}
}

func TestRunJob_MissingJob(t *testing.T) {
	jm := NewJobManager()
	if err := runJob(context.Background(), jm, nil, t.TempDir(), "ghost"); err == nil {
		t.Error("runJob should fail for a missing job")
	}
}

func TestRunJob_CancelledContext(t *testing.T) {
	dataDir := t.TempDir()
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runJob(ctx, jm, nil, dataDir, job.ID); err == nil {
		t.Fatal("runJob should observe a cancelled context")
	}
	// Cancellation is only checked between phases, so either the cancelled
	// or the completed state is acceptable depending on timing.
	got, _ := jm.GetJob(job.ID)
	if got.State != StateCancelled && got.State != StateCompleted {
		t.Errorf("job state = %s", got.State)
	}
}
