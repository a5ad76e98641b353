package store

// Store defines the interface for result persistence.  Implementations must
// be safe for concurrent use.
//
// Error handling conventions:
//   - nil on success
//   - NotFoundError if a result does not exist (Load/Delete)
//   - other errors wrapped with context via fmt.Errorf("...: %w", err)
type Store interface {
	// SaveResult atomically saves the result of a job, overwriting any
	// previous result for the same job ID.
	SaveResult(jobID string, result *Result) error

	// LoadResult retrieves the result of a job.
	LoadResult(jobID string) (*Result, error)

	// ListResults returns metadata for every stored result.
	ListResults() ([]Info, error)

	// DeleteResult removes a job's result and its improvement trace.
	DeleteResult(jobID string) error
}

// ErrNotFound is returned when a requested result does not exist.  Use
// errors.Is(err, ErrNotFound) to check for it.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing result.
type NotFoundError struct {
	JobID string
}

func (e *NotFoundError) Error() string {
	if e.JobID != "" {
		return "result not found: " + e.JobID
	}
	return "result not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
