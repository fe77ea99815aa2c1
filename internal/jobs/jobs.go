// Package jobs implements the shell's background-job table: a bounded
// registry of active background pipelines, keyed by the pipeline's
// representative pid (the first stage's pid).
//
// The table is shared between the main thread (registering jobs,
// listing them for the "jobs" builtin) and the signal layer's reaping
// goroutine (deactivating jobs as children exit).
package jobs

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// MaxJobs bounds the table.
const MaxJobs = 128

// Job is one entry in the table.
type Job struct {
	ID      int
	PID     int
	Command string
	Active  bool
}

// ErrFull is returned by Register when the table has no free slot.
// The executor checks Full before launching and runs the pipeline in
// the foreground when no slot is free.
type ErrFull struct{}

func (ErrFull) Error() string { return "job table full" }

// Table is a bounded, mutex-protected job registry.
type Table struct {
	mu      sync.Mutex
	entries [MaxJobs]Job
	nextID  atomic.Int64
}

// NewTable returns an empty job table with job ids starting at 1.
func NewTable() *Table {
	t := &Table{}
	t.nextID.Store(1)
	return t
}

// Register assigns the next monotonically increasing job id to a
// newly launched background pipeline and stores it in the first
// inactive slot. It returns ErrFull when the table is at capacity; the
// pipeline is still launched by the caller (the executor), just
// without a job-table entry.
func (t *Table) Register(pid int, command string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.entries {
		if !t.entries[i].Active {
			id := int(t.nextID.Add(1) - 1)
			t.entries[i] = Job{ID: id, PID: pid, Command: command, Active: true}
			return id, nil
		}
	}
	return 0, ErrFull{}
}

// Deactivate marks the first active entry with the given pid inactive
// and returns it, reporting ok=false if no active entry matches (the
// pid belonged to a foreground child, or a non-representative
// background child).
func (t *Table) Deactivate(pid int) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.entries {
		if t.entries[i].Active && t.entries[i].PID == pid {
			job := t.entries[i]
			t.entries[i].Active = false
			return job, true
		}
	}
	return Job{}, false
}

// Full reports whether every slot is currently active, used by the
// executor to decide the job-table-overflow fallback before it ever
// calls Register.
func (t *Table) Full() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, j := range t.entries {
		if !j.Active {
			return false
		}
	}
	return true
}

// Snapshot returns the currently active jobs, in slot order.
func (t *Table) Snapshot() []Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	var active []Job
	for _, j := range t.entries {
		if j.Active {
			active = append(active, j)
		}
	}
	return active
}

// Format renders the "jobs" builtin's listing: a header, one
// "[<id>] <pid>    <command>" line per active job, or "No active
// background jobs." when none are active.
func Format(jobs []Job) string {
	if len(jobs) == 0 {
		return "No active background jobs.\n"
	}
	out := "Active background jobs:\n"
	for _, j := range jobs {
		out += fmt.Sprintf("[%d] %d    %s\n", j.ID, j.PID, j.Command)
	}
	return out
}

// DoneLine renders the "[<id>] Done    <command>" notification printed
// by the signal layer when a background pipeline's representative
// child exits.
func DoneLine(j Job) string {
	return fmt.Sprintf("\n[%d] Done    %s\n", j.ID, j.Command)
}
