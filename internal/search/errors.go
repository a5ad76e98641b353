package search

import "errors"

var (
	// ErrEmptyTarget indicates a target specification with no populated labels.
	ErrEmptyTarget = errors.New("search: target specification has no populated labels")
	// ErrMissingCoupling indicates a pulse order with no coupling-strength entry.
	ErrMissingCoupling = errors.New("search: no coupling strength for pulse order")
	// ErrBasisAlignment indicates the orthonormalization did not keep the
	// target state first.  This is an internal bug signal, not a user error.
	ErrBasisAlignment = errors.New("search: basis vector 0 is not aligned with the target state")
)
