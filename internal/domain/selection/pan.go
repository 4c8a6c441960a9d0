package selection

// Panner accumulates wheel/swipe deltas and emits discrete window shifts.
// Panning shares the timeline surface with range selection but is a separate
// gesture: it never opens or extends a draft.
type Panner struct {
	// Threshold is the scroll distance that maps to one window unit.
	Threshold float64

	acc float64
}

func NewPanner(threshold float64) *Panner {
	if threshold <= 0 {
		threshold = 1
	}
	return &Panner{Threshold: threshold}
}

// Scroll folds a delta into the accumulator and returns the number of whole
// units crossed, zero until a threshold is reached. One step fires per
// crossing; sub-threshold remainder is kept, not replayed.
func (p *Panner) Scroll(delta float64) int {
	p.acc += delta
	steps := int(p.acc / p.Threshold)
	if steps != 0 {
		p.acc -= float64(steps) * p.Threshold
	}
	return steps
}

// Reset clears any accumulated remainder, e.g. when the pointer leaves the
// surface.
func (p *Panner) Reset() {
	p.acc = 0
}
