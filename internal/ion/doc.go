// Package ion simulates a single trapped ion: a two-level qubit coupled to a
// truncated Fock space, driven by sideband pulses of a shared laser.  It
// provides state vectors, per-pulse unitaries with analytic parameter
// derivatives, and composed pulse sequences.
package ion
