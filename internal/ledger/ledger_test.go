package ledger

import (
	"testing"
	"time"
)

func TestLedger_FindAndAppend(t *testing.T) {
	l := NewLedger()
	if l.Find("missing") != nil {
		t.Error("Find on empty ledger should return nil")
	}

	l.Append(validItem("work-1"))
	l.Append(validItem("work-2"))

	item := l.Find("work-2")
	if item == nil {
		t.Fatal("Find should locate appended item")
	}

	// Find returns a pointer into the backing slice.
	item.Progress = 42
	if l.Items[1].Progress != 42 {
		t.Error("mutation through Find pointer should be visible in the ledger")
	}
}

func TestLedger_Clone_Independent(t *testing.T) {
	l := NewLedger()
	l.Append(validItem("work-1"))

	cp := l.Clone()
	cp.Find("work-1").Status = StatusCompleted
	cp.Append(validItem("work-2"))

	if l.Items[0].Status != StatusClaimed {
		t.Error("Clone should not share item state")
	}
	if len(l.Items) != 1 {
		t.Error("Clone should not share the items slice")
	}
}

func TestLedger_HasActiveExclusive(t *testing.T) {
	l := NewLedger()

	low := validItem("work-1")
	low.Priority = PriorityLow
	l.Append(low)
	if l.HasActiveExclusive("deploy") {
		t.Error("low priority claim should not be exclusive")
	}

	critical := validItem("work-2")
	critical.Priority = PriorityCritical
	l.Append(critical)
	if !l.HasActiveExclusive("deploy") {
		t.Error("active critical claim should register as exclusive")
	}
	if l.HasActiveExclusive("migrate") {
		t.Error("other work types should be unaffected")
	}

	l.Find("work-2").Status = StatusCompleted
	if l.HasActiveExclusive("deploy") {
		t.Error("completed items should not count as active")
	}
}

func TestLedger_ActiveByType(t *testing.T) {
	l := NewLedger()
	a := validItem("work-1")
	b := validItem("work-2")
	b.Status = StatusInProgress
	c := validItem("work-3")
	c.Status = StatusFailed
	d := validItem("work-4")
	d.WorkType = "migrate"
	for _, item := range []WorkItem{a, b, c, d} {
		l.Append(item)
	}

	ids := l.ActiveByType("deploy")
	if len(ids) != 2 || ids[0] != "work-1" || ids[1] != "work-2" {
		t.Errorf("ActiveByType = %v, want [work-1 work-2]", ids)
	}
}

func TestLedger_Validate_DuplicateID(t *testing.T) {
	l := NewLedger()
	l.Append(validItem("work-1"))
	l.Append(validItem("work-1"))

	if err := l.Validate(); err == nil {
		t.Error("Validate should reject duplicate work_item_id")
	}
}

func TestLedger_Counts(t *testing.T) {
	l := NewLedger()
	statuses := []Status{
		StatusPending, StatusClaimed, StatusClaimed,
		StatusInProgress, StatusCompleted, StatusFailed,
	}
	for i, s := range statuses {
		item := validItem("work-" + string(rune('a'+i)))
		item.Status = s
		l.Append(item)
	}

	c := l.Counts()
	if c.Total != 6 || c.Pending != 1 || c.Claimed != 2 || c.InProgress != 1 || c.Completed != 1 || c.Failed != 1 {
		t.Errorf("Counts = %+v", c)
	}
}

func TestLedger_StaleClaims(t *testing.T) {
	now := time.Now()
	old := now.Add(-time.Hour)
	fresh := now.Add(-time.Minute)

	l := NewLedger()

	stale := validItem("work-stale")
	stale.ClaimedAt = &old
	l.Append(stale)

	recent := validItem("work-fresh")
	recent.ClaimedAt = &fresh
	l.Append(recent)

	started := validItem("work-started")
	started.Status = StatusInProgress
	started.ClaimedAt = &old
	l.Append(started)

	ids := l.StaleClaims(now.Add(-30 * time.Minute))
	if len(ids) != 1 || ids[0] != "work-stale" {
		t.Errorf("StaleClaims = %v, want [work-stale]", ids)
	}
}
