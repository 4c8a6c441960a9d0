package occupancy

import (
	"errors"

	"github.com/google/uuid"
)

var ErrUnknownWrite = errors.New("occupancy: unknown in-flight write")

// WriteState tags an in-flight optimistic write.
type WriteState int

const (
	WritePending WriteState = iota
	WriteCommitted
	WriteRolledBack
)

type inflight struct {
	interval Interval
	state    WriteState
}

// Overlay layers optimistic writes over a fetched interval set so the
// timeline can render a drafted block before the store confirms it, and roll
// it back cleanly if the write fails. The base set is never mutated.
type Overlay struct {
	writes map[string]*inflight
	order  []string
}

func NewOverlay() *Overlay {
	return &Overlay{writes: make(map[string]*inflight)}
}

// Stage adds a pending interval and returns the temp id used to confirm or
// roll it back. The interval keeps the temp id until Confirm swaps in the
// store-assigned one.
func (o *Overlay) Stage(iv Interval) string {
	tempID := "tmp-" + uuid.NewString()
	iv.ID = tempID
	o.writes[tempID] = &inflight{interval: iv, state: WritePending}
	o.order = append(o.order, tempID)
	return tempID
}

// Confirm marks a pending write committed under its real id.
func (o *Overlay) Confirm(tempID, realID string) error {
	w, ok := o.writes[tempID]
	if !ok {
		return ErrUnknownWrite
	}
	w.interval.ID = realID
	w.state = WriteCommitted
	return nil
}

// Rollback removes a failed write from the rendered set.
func (o *Overlay) Rollback(tempID string) error {
	w, ok := o.writes[tempID]
	if !ok {
		return ErrUnknownWrite
	}
	w.state = WriteRolledBack
	return nil
}

// State reports the tagged state of an in-flight write.
func (o *Overlay) State(tempID string) (WriteState, bool) {
	w, ok := o.writes[tempID]
	if !ok {
		return 0, false
	}
	return w.state, true
}

// Apply returns a fresh slice: base plus every staged write that has not
// been rolled back, in staging order.
func (o *Overlay) Apply(base []Interval) []Interval {
	out := make([]Interval, 0, len(base)+len(o.order))
	out = append(out, base...)
	for _, id := range o.order {
		w := o.writes[id]
		if w.state == WriteRolledBack {
			continue
		}
		out = append(out, w.interval)
	}
	return out
}

// Prune drops settled writes once a re-fetch has replaced the base set.
func (o *Overlay) Prune() {
	kept := o.order[:0]
	for _, id := range o.order {
		if o.writes[id].state == WritePending {
			kept = append(kept, id)
			continue
		}
		delete(o.writes, id)
	}
	o.order = kept
}
