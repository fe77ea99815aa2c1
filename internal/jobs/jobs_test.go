package jobs

import "testing"

func TestRegisterAssignsMonotonicIDs(t *testing.T) {
	table := NewTable()

	id1, err := table.Register(100, "sleep 30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id2, err := table.Register(101, "sleep 60")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id2 <= id1 {
		t.Fatalf("expected monotonically increasing ids, got %d then %d", id1, id2)
	}
}

func TestDeactivateThenReuseKeepsIDsIncreasing(t *testing.T) {
	table := NewTable()

	id1, err := table.Register(100, "sleep 30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job, ok := table.Deactivate(100)
	if !ok || job.ID != id1 {
		t.Fatalf("deactivate mismatch: job=%+v ok=%v", job, ok)
	}

	// Reuse the now-inactive slot. The new job id must still be greater
	// than id1, even though the slot was reused.
	id2, err := table.Register(200, "sleep 60")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id2 <= id1 {
		t.Fatalf("expected id2 > id1 across slot reuse, got id1=%d id2=%d", id1, id2)
	}
}

func TestDeactivateUnknownPidReportsNotFound(t *testing.T) {
	table := NewTable()
	if _, err := table.Register(100, "sleep 30"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := table.Deactivate(999); ok {
		t.Fatalf("expected Deactivate of unknown pid to report not found")
	}
}

func TestSnapshotOnlyIncludesActiveJobs(t *testing.T) {
	table := NewTable()
	id1, _ := table.Register(100, "sleep 30")
	_, _ = table.Register(101, "sleep 60")
	table.Deactivate(100)

	snap := table.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 active job, got %d", len(snap))
	}
	if snap[0].PID != 101 {
		t.Fatalf("expected remaining job pid 101, got %d", snap[0].PID)
	}
	for _, j := range snap {
		if j.ID == id1 {
			t.Fatalf("deactivated job %d should not appear in snapshot", id1)
		}
	}
}

func TestRegisterOverflowReturnsErrFull(t *testing.T) {
	table := NewTable()
	for i := 0; i < MaxJobs; i++ {
		if _, err := table.Register(1000+i, "sleep 1"); err != nil {
			t.Fatalf("unexpected error filling table at %d: %v", i, err)
		}
	}
	if _, err := table.Register(9999, "sleep 1"); err == nil {
		t.Fatalf("expected ErrFull once table is at capacity")
	}
}

func TestFormatEmpty(t *testing.T) {
	got := Format(nil)
	want := "No active background jobs.\n"
	if got != want {
		t.Fatalf("Format(nil) = %q, want %q", got, want)
	}
}

func TestFormatActive(t *testing.T) {
	got := Format([]Job{{ID: 1, PID: 4242, Command: "sleep 30"}})
	want := "Active background jobs:\n[1] 4242    sleep 30\n"
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}
