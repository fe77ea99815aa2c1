package shell

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"

	"myshell/internal/jobs"
)

// foregroundHandle tracks either "no foreground pipeline" (0) or the
// pid of the foreground pipeline's process group, safely readable from
// the reaping goroutine without a lock.
type foregroundHandle struct {
	pgid atomic.Int64
}

func (h *foregroundHandle) set(pid int) { h.pgid.Store(int64(pid)) }
func (h *foregroundHandle) clear()      { h.pgid.Store(0) }
func (h *foregroundHandle) get() int    { return int(h.pgid.Load()) }

// WatchSignals installs the shell's signal layer: SIGINT and SIGTSTP
// are forwarded to the foreground pipeline's process group (or handled
// as a prompt-reprint convenience when there is none), and SIGCHLD
// drives non-blocking reaping of exited children against the job
// table.
//
// Go does not let a true OS signal handler run arbitrary code the way
// a C handler can; the idiomatic substitute is signal.Notify
// delivering onto a channel, consumed by an ordinary goroutine that
// does the actual work off the signal-handling context.
func (s *Shell) WatchSignals(stdout io.Writer, promptLine func() (string, error)) {
	interactive := make(chan os.Signal, 8)
	signal.Notify(interactive, syscall.SIGINT, syscall.SIGTSTP)

	chld := make(chan os.Signal, 8)
	signal.Notify(chld, syscall.SIGCHLD)

	go func() {
		for sig := range interactive {
			switch sig {
			case syscall.SIGINT:
				s.handleSIGINT(stdout, promptLine)
			case syscall.SIGTSTP:
				s.handleSIGTSTP(stdout)
			}
		}
	}()

	go func() {
		for range chld {
			s.reapChildren(stdout)
		}
	}()
}

func (s *Shell) handleSIGINT(stdout io.Writer, promptLine func() (string, error)) {
	if pgid := s.fg.get(); pgid != 0 {
		_ = unix.Kill(-pgid, syscall.SIGINT)
		fmt.Fprint(stdout, "\n")
		return
	}
	fmt.Fprint(stdout, "\n")
	if line, err := promptLine(); err == nil {
		fmt.Fprint(stdout, line)
	}
}

func (s *Shell) handleSIGTSTP(stdout io.Writer) {
	pgid := s.fg.get()
	if pgid == 0 {
		return
	}
	_ = unix.Kill(-pgid, syscall.SIGTSTP)
	fmt.Fprint(stdout, "\n[Process suspended]\n")
}

// reapChildren drains every currently-exited child non-blockingly
// (WNOHANG) and deactivates any matching job-table entry. A pid with
// no matching active entry is silently discarded: it was a foreground
// child whose wait is handled inline by the executor, or a
// non-representative background child.
func (s *Shell) reapChildren(stdout io.Writer) {
	for {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
		if err != nil || pid <= 0 {
			return
		}
		if job, ok := s.jobs.Deactivate(pid); ok {
			fmt.Fprint(stdout, jobs.DoneLine(job))
		}
	}
}
