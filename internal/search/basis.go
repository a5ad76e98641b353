package search

import (
	"fmt"
	"math/cmplx"

	"github.com/iontrap/projsearch/internal/ion"
)

// alignmentTol is the tolerance on the |<target|basis[0]>| = 1 post-condition.
const alignmentTol = 1e-8

// TruncationSize returns the number of motional levels needed to hold the
// target's highest populated level plus everything the sequence can move
// population into: one more than the highest level, plus the sum of absolute
// pulse orders.
func TruncationSize(spec ion.Spec, orders []int) (int, error) {
	maxLevel := spec.MaxLevel()
	if maxLevel < 0 {
		return 0, ErrEmptyTarget
	}
	ns := 1 + maxLevel
	for _, order := range orders {
		if order < 0 {
			ns -= order
		} else {
			ns += order
		}
	}
	return ns, nil
}

// OrthonormalBasis builds an orthonormal basis over the subspace spanned by
// the populated labels of the target state.  The first vector is always the
// normalized target; the rest are built from the elementary vectors of the
// remaining populated labels by classical Gram-Schmidt, which guarantees the
// ordering instead of relying on incidental properties of a QR routine.
func OrthonormalBasis(target *ion.State) ([]*ion.State, error) {
	populated := target.PopulatedLabels()
	if len(populated) == 0 {
		return nil, ErrEmptyTarget
	}

	basis := []*ion.State{target.Normalized()}
	for _, p := range populated[1:] {
		elem, err := ion.NewState(ion.Spec{p.Label: 1}, target.Ns())
		if err != nil {
			return nil, err
		}
		vec := elem
		for _, b := range basis {
			vec = vec.ProjectOut(b)
		}
		basis = append(basis, vec.Normalized())
	}

	// Post-condition: the target survived as vector 0.  A violation means
	// the orthonormalization reordered or rescaled, which is a bug here.
	if align := cmplx.Abs(target.Normalized().Dot(basis[0])); align < 1-alignmentTol || align > 1+alignmentTol {
		return nil, fmt.Errorf("%w: |<target|basis[0]>| = %g", ErrBasisAlignment, align)
	}
	return basis, nil
}

// BuildBasis converts a sparse target specification and a pulse-order list
// into the orthonormal basis of states and a sequence sized to run them.
// The first state in the basis is always the normalized target.
func BuildBasis(spec ion.Spec, orders []int, laser ion.Laser) ([]*ion.State, *ion.Sequence, error) {
	ns, err := TruncationSize(spec, orders)
	if err != nil {
		return nil, nil, err
	}
	target, err := ion.NewState(spec, ns)
	if err != nil {
		return nil, nil, err
	}
	basis, err := OrthonormalBasis(target)
	if err != nil {
		return nil, nil, err
	}
	seq, err := ion.NewSequence(orders, ns, laser)
	if err != nil {
		return nil, nil, err
	}
	return basis, seq, nil
}
