package search

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/iontrap/projsearch/internal/ion"
)

// DefaultPeriodsFactor is the number of Rabi periods the duration component
// of a restart is drawn over when the caller does not choose one.
const DefaultPeriodsFactor = 3

// Sampler produces a fresh random initial parameter vector per call.
// Sequential calls are independent; reproducibility is up to the seeding of
// the rand source handed to NewSampler.
type Sampler func() []float64

// Couplings returns the coupling strength of the (0, |order|) transition for
// every distinct absolute order in the sequence, which sets the natural time
// scale of each pulse.
func Couplings(orders []int, laser ion.Laser) map[int]float64 {
	out := make(map[int]float64)
	for _, order := range orders {
		if order < 0 {
			order = -order
		}
		if _, ok := out[order]; !ok {
			out[order] = laser.RabiMod(0, order)
		}
	}
	return out
}

// SampleRanges returns the per-component upper bounds of the restart
// distribution: duration components span periodsFactor Rabi periods of the
// pulse's (0, |order|) coupling, phase components span a full turn.  Every
// |order| in orders must have an entry in couplings.
func SampleRanges(orders []int, couplings map[int]float64, periodsFactor float64) ([]float64, error) {
	if periodsFactor <= 0 {
		periodsFactor = DefaultPeriodsFactor
	}
	maxes := make([]float64, 0, 2*len(orders))
	for _, order := range orders {
		abs := order
		if abs < 0 {
			abs = -abs
		}
		omega, ok := couplings[abs]
		if !ok {
			return nil, fmt.Errorf("%w %d", ErrMissingCoupling, order)
		}
		maxes = append(maxes, periodsFactor*2*math.Pi/omega, 2*math.Pi)
	}
	return maxes, nil
}

// NewSampler builds the randomized-restart generator for a sequence.
func NewSampler(orders []int, couplings map[int]float64, periodsFactor float64, rng *rand.Rand) (Sampler, error) {
	maxes, err := SampleRanges(orders, couplings, periodsFactor)
	if err != nil {
		return nil, err
	}
	return func() []float64 {
		params := make([]float64, len(maxes))
		for i, m := range maxes {
			params[i] = rng.Float64() * m
		}
		return params
	}, nil
}
