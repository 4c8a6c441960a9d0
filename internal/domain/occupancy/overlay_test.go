package occupancy

import (
	"strings"
	"testing"

	"hostcal/internal/domain/shared/daterange"
)

func stagedInterval(resource string, startDay, endDay int) Interval {
	return Interval{
		ResourceID: resource,
		Range:      daterange.DateRange{Start: utcDay(startDay), End: utcDay(endDay)},
		Channel:    ChannelManual,
		Mutable:    true,
	}
}

func TestOverlayStageAddsPending(t *testing.T) {
	o := NewOverlay()
	base := []Interval{stagedInterval("r", 1, 2)}

	tempID := o.Stage(stagedInterval("r", 5, 8))
	if !strings.HasPrefix(tempID, "tmp-") {
		t.Errorf("temp id = %q", tempID)
	}
	if st, ok := o.State(tempID); !ok || st != WritePending {
		t.Errorf("state = %v, %v", st, ok)
	}

	applied := o.Apply(base)
	if len(applied) != 2 {
		t.Fatalf("applied = %d intervals", len(applied))
	}
	if applied[1].ID != tempID {
		t.Errorf("staged interval carries id %q", applied[1].ID)
	}
	if len(base) != 1 {
		t.Error("base set must not be mutated")
	}
}

func TestOverlayConfirmSwapsID(t *testing.T) {
	o := NewOverlay()
	tempID := o.Stage(stagedInterval("r", 5, 8))

	if err := o.Confirm(tempID, "blk-42"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	applied := o.Apply(nil)
	if len(applied) != 1 || applied[0].ID != "blk-42" {
		t.Errorf("applied = %+v", applied)
	}
	if st, _ := o.State(tempID); st != WriteCommitted {
		t.Errorf("state = %v", st)
	}
}

func TestOverlayRollbackHidesWrite(t *testing.T) {
	o := NewOverlay()
	base := []Interval{stagedInterval("r", 1, 2)}
	tempID := o.Stage(stagedInterval("r", 5, 8))

	if err := o.Rollback(tempID); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	applied := o.Apply(base)
	if len(applied) != 1 {
		t.Errorf("rolled-back write still rendered: %+v", applied)
	}
}

func TestOverlayUnknownWrite(t *testing.T) {
	o := NewOverlay()
	if err := o.Confirm("tmp-missing", "x"); err != ErrUnknownWrite {
		t.Errorf("Confirm error = %v", err)
	}
	if err := o.Rollback("tmp-missing"); err != ErrUnknownWrite {
		t.Errorf("Rollback error = %v", err)
	}
}

func TestOverlayApplyKeepsStagingOrder(t *testing.T) {
	o := NewOverlay()
	first := o.Stage(stagedInterval("r", 1, 2))
	second := o.Stage(stagedInterval("r", 3, 4))

	applied := o.Apply(nil)
	if len(applied) != 2 || applied[0].ID != first || applied[1].ID != second {
		t.Errorf("order lost: %+v", applied)
	}
}

func TestOverlayPrune(t *testing.T) {
	o := NewOverlay()
	committed := o.Stage(stagedInterval("r", 1, 2))
	rolled := o.Stage(stagedInterval("r", 3, 4))
	pending := o.Stage(stagedInterval("r", 5, 6))

	if err := o.Confirm(committed, "blk-1"); err != nil {
		t.Fatal(err)
	}
	if err := o.Rollback(rolled); err != nil {
		t.Fatal(err)
	}

	o.Prune()

	if _, ok := o.State(committed); ok {
		t.Error("committed write should be pruned after re-fetch")
	}
	if _, ok := o.State(rolled); ok {
		t.Error("rolled-back write should be pruned")
	}
	if st, ok := o.State(pending); !ok || st != WritePending {
		t.Error("pending write must survive prune")
	}
	if applied := o.Apply(nil); len(applied) != 1 {
		t.Errorf("applied after prune = %d", len(applied))
	}
}
