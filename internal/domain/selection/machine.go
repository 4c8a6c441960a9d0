// Package selection turns pointer gestures over the timeline grid into a
// provisional date or time range. The machine is pure: it owns no I/O and
// hands the finalized range to the caller on commit.
package selection

import (
	"time"

	"hostcal/internal/domain/shared/dates"
	"hostcal/internal/domain/shared/daterange"
)

type State int

const (
	StateIdle State = iota
	StateAnchoring
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateAnchoring:
		return "anchoring"
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityTime
)

// OccupiedFunc reports whether the cell starting at cellStart is already
// covered by any occupancy interval for the resource. Existing occupancy of
// any channel blocks new selection.
type OccupiedFunc func(resourceID string, cellStart time.Time) bool

type Config struct {
	Granularity Granularity
	// Slot is the cell size at time granularity. Ignored for day cells.
	Slot     time.Duration
	Location *time.Location
	Now      func() time.Time
	Occupied OccupiedFunc
}

// Commit is the finalized output of a selection gesture. Range is half-open
// and normalized so Start <= End regardless of drag direction.
type Commit struct {
	ResourceID string
	Range      daterange.DateRange
}

// Draft is the ephemeral in-progress selection, exposed for rendering.
type Draft struct {
	ResourceID string
	Anchor     time.Time
	Head       time.Time
}

// Machine mediates pointer events into at most one open draft at a time.
type Machine struct {
	cfg Config

	state      State
	resourceID string
	anchor     time.Time
	head       time.Time

	held          bool
	freshAnchor   bool
	suppressClick bool
}

func NewMachine(cfg Config) *Machine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Granularity == GranularityTime && cfg.Slot <= 0 {
		cfg.Slot = 30 * time.Minute
	}
	return &Machine{cfg: cfg}
}

func (m *Machine) State() State { return m.state }

// Draft returns the open draft, if any, for rendering.
func (m *Machine) Draft() (Draft, bool) {
	if m.state == StateIdle {
		return Draft{}, false
	}
	return Draft{ResourceID: m.resourceID, Anchor: m.anchor, Head: m.head}, true
}

// snap aligns a pointer position to the start of the cell that contains it,
// so every draft endpoint sits on the grid the machine steps over.
func (m *Machine) snap(cell time.Time) time.Time {
	if m.cfg.Granularity == GranularityDay {
		return dates.StartOfDay(cell, m.cfg.Location)
	}
	return cell.Truncate(m.cfg.Slot)
}

// PointerDown starts a draft on a selectable cell. Pressing on an occupied
// or past cell is ignored entirely: no draft state is created.
func (m *Machine) PointerDown(resourceID string, cell time.Time) {
	cell = m.snap(cell)
	m.held = true
	if m.state != StateIdle {
		// an open click-mode draft exists; the decision happens on Click
		return
	}
	if !m.Selectable(resourceID, cell) {
		return
	}
	m.state = StateAnchoring
	m.resourceID = resourceID
	m.anchor = cell
	m.head = cell
	m.freshAnchor = true
}

// PointerMove extends the draft while the pointer is held. The head stops
// before the first occupied or past cell between anchor and target.
func (m *Machine) PointerMove(resourceID string, cell time.Time) {
	if !m.held || m.state == StateIdle || resourceID != m.resourceID {
		return
	}
	cell = m.snap(cell)
	if cell.Equal(m.head) {
		return
	}
	m.state = StateDragging
	m.head = m.clampHead(cell)
}

// PointerUp finishes a drag. A drag release commits; a plain press leaves
// the draft open for click-mode completion.
func (m *Machine) PointerUp(resourceID string, cell time.Time) (Commit, bool) {
	m.held = false
	switch m.state {
	case StateDragging:
		commit := m.finalize()
		// the browser-style click that follows a drag release must not
		// open a new selection
		m.suppressClick = true
		return commit, true
	default:
		return Commit{}, false
	}
}

// Click completes or cancels an open click-mode draft. Callers deliver it
// after PointerUp, mirroring the platform event order.
func (m *Machine) Click(resourceID string, cell time.Time) (Commit, bool) {
	cell = m.snap(cell)
	if m.suppressClick {
		// one-shot guard, cleared after use
		m.suppressClick = false
		return Commit{}, false
	}
	if m.state != StateAnchoring {
		return Commit{}, false
	}
	if m.freshAnchor && resourceID == m.resourceID && cell.Equal(m.anchor) {
		// the click that created this anchor
		m.freshAnchor = false
		return Commit{}, false
	}
	if resourceID != m.resourceID {
		// a draft may be open on at most one resource
		m.reset()
		m.PointerDown(resourceID, cell)
		m.held = false
		m.freshAnchor = false
		return Commit{}, false
	}
	if cell.Equal(m.anchor) {
		// explicit escape path: same cell again cancels
		m.reset()
		return Commit{}, false
	}
	head := m.clampHead(cell)
	if !head.Equal(cell) {
		// target unreachable over occupied cells; keep the draft open
		return Commit{}, false
	}
	m.head = head
	return m.finalize(), true
}

// Escape discards any open draft.
func (m *Machine) Escape() {
	m.reset()
}

// Selectable reports whether a fresh selection may start on the cell: not in
// the past and not covered by existing occupancy of any channel.
func (m *Machine) Selectable(resourceID string, cell time.Time) bool {
	cell = m.snap(cell)
	if cell.Before(m.horizon()) {
		return false
	}
	if m.cfg.Occupied != nil && m.cfg.Occupied(resourceID, cell) {
		return false
	}
	return true
}

// horizon is the earliest selectable cell start: today's day start at day
// granularity, the current slot at time granularity.
func (m *Machine) horizon() time.Time {
	now := m.cfg.Now()
	if m.cfg.Granularity == GranularityDay {
		return dates.StartOfDay(now, m.cfg.Location)
	}
	return now.Truncate(m.cfg.Slot)
}

func (m *Machine) next(cell time.Time) time.Time {
	if m.cfg.Granularity == GranularityDay {
		return dates.AddDays(cell, 1)
	}
	return cell.Add(m.cfg.Slot)
}

func (m *Machine) prev(cell time.Time) time.Time {
	if m.cfg.Granularity == GranularityDay {
		return dates.AddDays(cell, -1)
	}
	return cell.Add(-m.cfg.Slot)
}

// clampHead walks cell by cell from the anchor toward target and stops
// before the first unselectable cell, so a draft can never cover occupied
// days.
func (m *Machine) clampHead(target time.Time) time.Time {
	head := m.anchor
	for !head.Equal(target) {
		var step time.Time
		if target.After(head) {
			step = m.next(head)
		} else {
			step = m.prev(head)
		}
		if !m.Selectable(m.resourceID, step) {
			break
		}
		head = step
	}
	return head
}

func (m *Machine) finalize() Commit {
	start, end := m.anchor, m.head
	if end.Before(start) {
		start, end = end, start
	}
	commit := Commit{
		ResourceID: m.resourceID,
		Range:      daterange.DateRange{Start: start.UTC(), End: m.next(end).UTC()},
	}
	m.reset()
	return commit
}

func (m *Machine) reset() {
	m.state = StateIdle
	m.resourceID = ""
	m.anchor = time.Time{}
	m.head = time.Time{}
	m.freshAnchor = false
}
