package ion

import "errors"

var (
	// ErrDimensionMismatch indicates a truncation size too small to hold a
	// pulse order or a state label.
	ErrDimensionMismatch = errors.New("ion: truncation size inconsistent with requested levels")
	// ErrBadLabel indicates a state label that is not of the form "g3" or "e12".
	ErrBadLabel = errors.New("ion: malformed state label")
	// ErrBadParams indicates a parameter vector whose length does not match
	// the sequence (two parameters per pulse).
	ErrBadParams = errors.New("ion: parameter vector length does not match sequence")
)
