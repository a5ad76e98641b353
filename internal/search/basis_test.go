package search

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/iontrap/projsearch/internal/ion"
)

var testLaser = ion.Laser{Detuning: 0.2, LambDicke: 0.1, BaseRabi: 1.5}

func TestTruncationSize(t *testing.T) {
	spec := ion.Spec{{Branch: ion.Ground, Level: 2}: 1}
	cases := []struct {
		orders []int
		want   int
	}{
		{nil, 3},
		{[]int{0}, 3},
		{[]int{1}, 4},
		{[]int{-1}, 4},
		{[]int{1, -2, 0}, 6},
	}
	for _, c := range cases {
		got, err := TruncationSize(spec, c.orders)
		if err != nil {
			t.Fatalf("TruncationSize(%v) failed: %v", c.orders, err)
		}
		if got != c.want {
			t.Errorf("TruncationSize(%v) = %d, want %d", c.orders, got, c.want)
		}
	}
}

func TestTruncationSize_EmptyTarget(t *testing.T) {
	_, err := TruncationSize(ion.Spec{}, []int{1})
	if !errors.Is(err, ErrEmptyTarget) {
		t.Errorf("got %v, want ErrEmptyTarget", err)
	}
}

func TestOrthonormalBasis(t *testing.T) {
	target, _ := ion.NewState(ion.Spec{
		{Branch: ion.Ground, Level: 0}:  1,
		{Branch: ion.Excited, Level: 1}: 1,
		{Branch: ion.Ground, Level: 2}:  complex(0, 1),
	}, 4)

	basis, err := OrthonormalBasis(target)
	if err != nil {
		t.Fatalf("OrthonormalBasis failed: %v", err)
	}
	if len(basis) != 3 {
		t.Fatalf("got %d basis vectors, want one per populated label", len(basis))
	}

	// First vector is the normalized target.
	if align := cmplx.Abs(target.Normalized().Dot(basis[0])); math.Abs(align-1) > 1e-12 {
		t.Errorf("|<target|basis[0]>| = %g, want 1", align)
	}

	// Pairwise orthonormal.
	for i := range basis {
		for j := range basis {
			dot := cmplx.Abs(basis[i].Dot(basis[j]))
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(dot-want) > 1e-10 {
				t.Errorf("|<basis[%d]|basis[%d]>| = %g, want %g", i, j, dot, want)
			}
		}
	}
}

func TestOrthonormalBasis_SingleLabel(t *testing.T) {
	target, _ := ion.NewState(ion.Spec{{Branch: ion.Ground, Level: 0}: 2}, 2)
	basis, err := OrthonormalBasis(target)
	if err != nil {
		t.Fatalf("OrthonormalBasis failed: %v", err)
	}
	if len(basis) != 1 {
		t.Fatalf("got %d basis vectors, want 1", len(basis))
	}
	if math.Abs(basis[0].Norm()-1) > 1e-12 {
		t.Errorf("basis vector not normalized: %g", basis[0].Norm())
	}
}

func TestOrthonormalBasis_EmptyTarget(t *testing.T) {
	target, _ := ion.NewState(ion.Spec{}, 2)
	if _, err := OrthonormalBasis(target); !errors.Is(err, ErrEmptyTarget) {
		t.Errorf("got %v, want ErrEmptyTarget", err)
	}
}

func TestBuildBasis(t *testing.T) {
	spec := ion.Spec{
		{Branch: ion.Ground, Level: 0}:  1,
		{Branch: ion.Excited, Level: 1}: 1,
	}
	basis, seq, err := BuildBasis(spec, []int{1, -1}, testLaser)
	if err != nil {
		t.Fatalf("BuildBasis failed: %v", err)
	}
	if seq.Ns() != 4 {
		t.Errorf("sequence ns = %d, want 4", seq.Ns())
	}
	if len(basis) != 2 {
		t.Errorf("got %d basis vectors, want 2", len(basis))
	}
	if basis[0].Ns() != seq.Ns() {
		t.Error("basis and sequence dimensioned differently")
	}
}
