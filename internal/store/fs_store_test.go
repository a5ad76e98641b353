package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testConfig() JobConfig {
	return JobConfig{
		Line:   "state={g0:1};sequence=[0,1];laser=(0,0.1,1000);time=60",
		Method: "bfgs",
		Seed:   42,
	}
}

func TestFSStore_SaveLoadRoundTrip(t *testing.T) {
	fs, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	result := NewResult("job-1", 0.125, []float64{1.5, 0.5, 2, 3}, 17, 4, testConfig())
	if err := fs.SaveResult("job-1", result); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	loaded, err := fs.LoadResult("job-1")
	if err != nil {
		t.Fatalf("LoadResult failed: %v", err)
	}
	if loaded.Infidelity != 0.125 || loaded.Attempts != 17 || loaded.Improvements != 4 {
		t.Errorf("loaded result differs: %+v", loaded)
	}
	if len(loaded.Parameters) != 4 {
		t.Errorf("loaded %d parameters, want 4", len(loaded.Parameters))
	}
	if loaded.Config.Line != result.Config.Line {
		t.Error("config line lost in round trip")
	}
}

func TestFSStore_LoadMissing(t *testing.T) {
	fs, _ := NewFSStore(t.TempDir())
	_, err := fs.LoadResult("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestFSStore_SaveValidation(t *testing.T) {
	fs, _ := NewFSStore(t.TempDir())
	if err := fs.SaveResult("", NewResult("x", 0, nil, 0, 0, testConfig())); err == nil {
		t.Error("empty jobID should fail")
	}
	if err := fs.SaveResult("x", nil); err == nil {
		t.Error("nil result should fail")
	}
}

func TestFSStore_ListResults(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewFSStore(dir)

	infos, err := fs.ListResults()
	if err != nil {
		t.Fatalf("ListResults on empty store failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("empty store listed %d results", len(infos))
	}

	fs.SaveResult("a", NewResult("a", 0.5, []float64{1, 2}, 1, 1, testConfig()))
	fs.SaveResult("b", NewResult("b", 0.25, []float64{3, 4}, 2, 2, testConfig()))

	// A job directory without a result must be skipped, not fail the list.
	os.MkdirAll(filepath.Join(dir, "jobs", "incomplete"), 0755)

	infos, err = fs.ListResults()
	if err != nil {
		t.Fatalf("ListResults failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("listed %d results, want 2", len(infos))
	}
}

func TestFSStore_DeleteResult(t *testing.T) {
	fs, _ := NewFSStore(t.TempDir())
	fs.SaveResult("gone", NewResult("gone", 0.5, []float64{1, 2}, 1, 1, testConfig()))

	if err := fs.DeleteResult("gone"); err != nil {
		t.Fatalf("DeleteResult failed: %v", err)
	}
	if _, err := fs.LoadResult("gone"); !errors.Is(err, ErrNotFound) {
		t.Error("result still loadable after delete")
	}
	if err := fs.DeleteResult("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestResultValidate(t *testing.T) {
	good := NewResult("ok", 0.5, []float64{1, 2}, 1, 1, testConfig())
	if err := good.Validate(); err != nil {
		t.Errorf("valid result rejected: %v", err)
	}

	odd := NewResult("odd", 0.5, []float64{1, 2, 3}, 1, 1, testConfig())
	if err := odd.Validate(); err == nil {
		t.Error("odd-length parameter vector accepted")
	}
}
