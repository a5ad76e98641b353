package ion

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
	"strconv"
)

// Branch selects one of the two internal qubit levels.
type Branch int

const (
	Excited Branch = iota
	Ground
)

func (b Branch) String() string {
	if b == Excited {
		return "e"
	}
	return "g"
}

// Label identifies one dimension of the truncated Hilbert space: a qubit
// branch and a motional (Fock) level.
type Label struct {
	Branch Branch
	Level  int
}

func (l Label) String() string {
	return l.Branch.String() + strconv.Itoa(l.Level)
}

// ParseLabel parses labels of the form "g0" or "e12".
func ParseLabel(s string) (Label, error) {
	if len(s) < 2 {
		return Label{}, fmt.Errorf("%w: %q", ErrBadLabel, s)
	}
	var branch Branch
	switch s[0] {
	case 'e':
		branch = Excited
	case 'g':
		branch = Ground
	default:
		return Label{}, fmt.Errorf("%w: %q", ErrBadLabel, s)
	}
	level, err := strconv.Atoi(s[1:])
	if err != nil || level < 0 {
		return Label{}, fmt.Errorf("%w: %q", ErrBadLabel, s)
	}
	return Label{Branch: branch, Level: level}, nil
}

// Spec is a sparse state specification: label -> complex amplitude.  It need
// not be normalised.
type Spec map[Label]complex128

// MaxLevel returns the highest motional level referenced by the spec, or -1
// for an empty spec.
func (s Spec) MaxLevel() int {
	maxLevel := -1
	for l := range s {
		if l.Level > maxLevel {
			maxLevel = l.Level
		}
	}
	return maxLevel
}

// popTol is the magnitude below which an amplitude is considered unpopulated.
const popTol = 1e-11

// State is a dense vector over the 2*ns dimensional space.  Excited levels
// occupy indices [0, ns), ground levels [ns, 2*ns).  States are immutable
// once constructed.
type State struct {
	amps []complex128
	ns   int
}

// NewState materialises a sparse specification as a dense state vector over
// ns motional levels.  The amplitudes are kept as given (no normalisation).
func NewState(spec Spec, ns int) (*State, error) {
	if ns <= 0 {
		return nil, fmt.Errorf("%w: ns = %d", ErrDimensionMismatch, ns)
	}
	amps := make([]complex128, 2*ns)
	for l, a := range spec {
		if l.Level >= ns {
			return nil, fmt.Errorf("%w: label %s with ns = %d", ErrDimensionMismatch, l, ns)
		}
		amps[index(l, ns)] = a
	}
	return &State{amps: amps, ns: ns}, nil
}

// NewStateVector wraps a dense amplitude vector of even length.
func NewStateVector(amps []complex128) (*State, error) {
	if len(amps) == 0 || len(amps)%2 != 0 {
		return nil, fmt.Errorf("%w: vector length %d", ErrDimensionMismatch, len(amps))
	}
	out := make([]complex128, len(amps))
	copy(out, amps)
	return &State{amps: out, ns: len(amps) / 2}, nil
}

func index(l Label, ns int) int {
	if l.Branch == Excited {
		return l.Level
	}
	return ns + l.Level
}

func labelOf(i, ns int) Label {
	if i < ns {
		return Label{Branch: Excited, Level: i}
	}
	return Label{Branch: Ground, Level: i - ns}
}

// Ns returns the number of motional levels.
func (s *State) Ns() int { return s.ns }

// Dim returns the full vector dimension, 2*Ns.
func (s *State) Dim() int { return 2 * s.ns }

// At returns the amplitude of the given label.
func (s *State) At(l Label) complex128 {
	if l.Level >= s.ns {
		return 0
	}
	return s.amps[index(l, s.ns)]
}

// Amplitudes returns a copy of the dense amplitude vector.
func (s *State) Amplitudes() []complex128 {
	out := make([]complex128, len(s.amps))
	copy(out, s.amps)
	return out
}

// Populated holds one populated entry of a state vector.
type Populated struct {
	Label     Label
	Amplitude complex128
}

// PopulatedLabels returns the labels carrying population above the 1e-11
// magnitude cutoff, ordered excited levels first, then ground, ascending.
func (s *State) PopulatedLabels() []Populated {
	var out []Populated
	for i, a := range s.amps {
		if cmplx.Abs(a) > popTol {
			out = append(out, Populated{Label: labelOf(i, s.ns), Amplitude: a})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return index(out[i].Label, s.ns) < index(out[j].Label, s.ns)
	})
	return out
}

// Dot returns the inner product <s|other>.
func (s *State) Dot(other *State) complex128 {
	var sum complex128
	for i, a := range s.amps {
		sum += cmplx.Conj(a) * other.amps[i]
	}
	return sum
}

// Norm returns the 2-norm of the state vector.
func (s *State) Norm() float64 {
	var sum float64
	for _, a := range s.amps {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return math.Sqrt(sum)
}

// Normalized returns a unit-norm copy of the state.
func (s *State) Normalized() *State {
	n := s.Norm()
	out := make([]complex128, len(s.amps))
	for i, a := range s.amps {
		out[i] = a / complex(n, 0)
	}
	return &State{amps: out, ns: s.ns}
}

// scaled returns s scaled by c.
func (s *State) scaled(c complex128) *State {
	out := make([]complex128, len(s.amps))
	for i, a := range s.amps {
		out[i] = c * a
	}
	return &State{amps: out, ns: s.ns}
}

// Sub returns s - other.
func (s *State) Sub(other *State) *State {
	out := make([]complex128, len(s.amps))
	for i, a := range s.amps {
		out[i] = a - other.amps[i]
	}
	return &State{amps: out, ns: s.ns}
}

// ProjectOut returns s with its component along the unit vector u removed.
func (s *State) ProjectOut(u *State) *State {
	return s.Sub(u.scaled(u.Dot(s)))
}
