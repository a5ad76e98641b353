package search

// BestFilter is a stateful callback adapter that tracks the best infidelity
// seen so far and routes each new outcome to a success or failure branch.
// Outcomes whose Success flag is false are dropped without firing either
// branch.  Access is strictly sequential (the anytime loop invokes callbacks
// synchronously), so no locking is needed.
type BestFilter struct {
	onSuccess Callback
	onFailure Callback
	compare   func(next, best float64) bool
	best      *float64
}

// NewBestFilter builds a filter.  onFailure may be nil.  compare reports
// whether next improves on best; nil means strict less-than, i.e. the filter
// minimizes and ties do not count as improvements.  initial seeds the best
// value; nil means the first successful outcome is taken as the best.
func NewBestFilter(onSuccess, onFailure Callback, compare func(next, best float64) bool, initial *float64) *BestFilter {
	if compare == nil {
		compare = func(next, best float64) bool { return next < best }
	}
	f := &BestFilter{
		onSuccess: onSuccess,
		onFailure: onFailure,
		compare:   compare,
	}
	if initial != nil {
		v := *initial
		f.best = &v
	}
	return f
}

// Best returns the best value recorded so far, or false if none.
func (f *BestFilter) Best() (float64, bool) {
	if f.best == nil {
		return 0, false
	}
	return *f.best, true
}

// Apply routes one outcome.  It satisfies the Callback signature.
func (f *BestFilter) Apply(o Outcome) {
	if !o.Success {
		return
	}
	if f.best == nil || f.compare(o.Infidelity, *f.best) {
		v := o.Infidelity
		f.best = &v
		f.onSuccess(o)
		return
	}
	if f.onFailure != nil {
		f.onFailure(o)
	}
}
