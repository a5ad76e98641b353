// Package search finds pulse-sequence parameters that make one target state
// measurement-distinguishable from every other state in an orthonormal basis
// built around it.  It assembles an infidelity objective with an analytic
// gradient and drives repeated local minimizations from random restarts
// under a wall-clock budget, keeping the best result seen so far.
package search
