package ion

import (
	"fmt"
	"math"
)

// Sideband is a single pulse addressing the sideband of the given order:
// 0 is the carrier, +n the n-th blue sideband, -n the n-th red sideband.
// A blue sideband of order n couples |g,m> to |e,m+n>.
type Sideband struct {
	ns    int
	order int
	laser Laser
	pairs []coupledPair
}

// coupledPair is one two-dimensional subspace mixed by the pulse, with its
// coupling strength.
type coupledPair struct {
	g, e  int // vector indices
	omega float64
}

// NewSideband builds the pulse operator factory for one sideband order over
// ns motional levels.
func NewSideband(ns, order int, laser Laser) (*Sideband, error) {
	abs := order
	if abs < 0 {
		abs = -abs
	}
	if abs >= ns {
		return nil, fmt.Errorf("%w: order %d with ns = %d", ErrDimensionMismatch, order, ns)
	}
	sb := &Sideband{ns: ns, order: order, laser: laser}
	for m := 0; m < ns; m++ {
		me := m + order
		if me < 0 || me >= ns {
			continue
		}
		sb.pairs = append(sb.pairs, coupledPair{
			g:     ns + m,
			e:     me,
			omega: laser.RabiMod(m, order),
		})
	}
	return sb, nil
}

// Order returns the signed sideband order.
func (sb *Sideband) Order() int { return sb.order }

// Name returns the conventional pulse name for trace headings.
func (sb *Sideband) Name() string {
	switch {
	case sb.order == 0:
		return "carrier"
	case sb.order == 1:
		return "blue"
	case sb.order == -1:
		return "red"
	case sb.order > 1:
		return fmt.Sprintf("blue%d", sb.order)
	default:
		return fmt.Sprintf("red%d", -sb.order)
	}
}

// Each coupled pair (|e,m'>, |g,m>) evolves under the rotating-frame
// Hamiltonian H = (delta/2) sigma_z + (Omega/2)(cos phi sigma_x + sin phi
// sigma_y), so with W = sqrt(delta^2 + Omega^2):
//
//	U = cos(Wt/2) I - i sin(Wt/2)/W [delta, Omega e^{-i phi}; Omega e^{i phi}, -delta]
//
// Uncoupled levels are left alone.

// U returns the unitary for duration t and phase phi.
func (sb *Sideband) U(t, phi float64) *Operator {
	op := Identity(2 * sb.ns)
	for _, p := range sb.pairs {
		delta, omega := sb.laser.Detuning, p.omega
		w := math.Hypot(delta, omega)
		if w == 0 {
			continue
		}
		c := math.Cos(w * t / 2)
		s := math.Sin(w*t/2) / w
		eMinus := complex(math.Cos(phi), -math.Sin(phi))
		ePlus := complex(math.Cos(phi), math.Sin(phi))
		op.Set(p.e, p.e, complex(c, -s*delta))
		op.Set(p.e, p.g, complex(0, -s*omega)*eMinus)
		op.Set(p.g, p.e, complex(0, -s*omega)*ePlus)
		op.Set(p.g, p.g, complex(c, s*delta))
	}
	return op
}

// DUDt returns the derivative of U with respect to the duration.
func (sb *Sideband) DUDt(t, phi float64) *Operator {
	op := NewOperator(2 * sb.ns)
	for _, p := range sb.pairs {
		delta, omega := sb.laser.Detuning, p.omega
		w := math.Hypot(delta, omega)
		if w == 0 {
			continue
		}
		dc := -w / 2 * math.Sin(w*t/2)
		ds := math.Cos(w*t/2) / 2
		eMinus := complex(math.Cos(phi), -math.Sin(phi))
		ePlus := complex(math.Cos(phi), math.Sin(phi))
		op.Set(p.e, p.e, complex(dc, -ds*delta))
		op.Set(p.e, p.g, complex(0, -ds*omega)*eMinus)
		op.Set(p.g, p.e, complex(0, -ds*omega)*ePlus)
		op.Set(p.g, p.g, complex(dc, ds*delta))
	}
	return op
}

// DUDPhase returns the derivative of U with respect to the phase.
func (sb *Sideband) DUDPhase(t, phi float64) *Operator {
	op := NewOperator(2 * sb.ns)
	for _, p := range sb.pairs {
		delta, omega := sb.laser.Detuning, p.omega
		w := math.Hypot(delta, omega)
		if w == 0 {
			continue
		}
		s := math.Sin(w*t/2) / w
		eMinus := complex(math.Cos(phi), -math.Sin(phi))
		ePlus := complex(math.Cos(phi), math.Sin(phi))
		// d/dphi of -i s Omega e^{-+i phi}
		op.Set(p.e, p.g, complex(-s*omega, 0)*eMinus)
		op.Set(p.g, p.e, complex(s*omega, 0)*ePlus)
	}
	return op
}
