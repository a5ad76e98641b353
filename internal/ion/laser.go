package ion

import "math"

// Laser holds the shared parameters of the addressing laser.  Detuning and
// BaseRabi are angular frequencies; LambDicke is the dimensionless coupling
// between the internal and motional degrees of freedom.
type Laser struct {
	Detuning  float64
	LambDicke float64
	BaseRabi  float64
}

// RabiMod returns the coupling strength of the |g,m> <-> |e,m+n> transition
// in the Lamb-Dicke regime,
//
//	Omega = BaseRabi * exp(-eta^2/2) * eta^|n| * sqrt(lo!/hi!) * L^|n|_lo(eta^2)
//
// with lo/hi the smaller/larger of m and m+n and L a generalised Laguerre
// polynomial.
func (l Laser) RabiMod(m, n int) float64 {
	lo, hi := m, m+n
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 {
		return 0
	}
	k := hi - lo
	eta2 := l.LambDicke * l.LambDicke
	// sqrt(lo!/hi!) = 1/sqrt((lo+1)*(lo+2)*...*hi)
	ratio := 1.0
	for j := lo + 1; j <= hi; j++ {
		ratio /= float64(j)
	}
	mod := math.Exp(-eta2/2) * math.Pow(l.LambDicke, float64(k)) * math.Sqrt(ratio)
	return l.BaseRabi * mod * laguerre(lo, float64(k), eta2)
}

// laguerre evaluates the generalised Laguerre polynomial L^alpha_k(x) by the
// standard three-term recurrence.
func laguerre(k int, alpha, x float64) float64 {
	if k == 0 {
		return 1
	}
	prev, cur := 1.0, 1.0+alpha-x
	for i := 1; i < k; i++ {
		next := ((float64(2*i+1)+alpha-x)*cur - (float64(i)+alpha)*prev) / float64(i+1)
		prev, cur = cur, next
	}
	return cur
}
