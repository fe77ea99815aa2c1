package shell

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"myshell/internal/pipeline"
)

// Execute builds the pipe chain, launches every stage, and either
// waits for the pipeline (foreground) or registers it as a background
// job. Diagnostics are written to stderr; a failing stage never aborts
// the caller's loop.
func (s *Shell) Execute(p pipeline.Pipeline, stdin io.Reader, stdout, stderr io.Writer) {
	n := len(p.Stages)
	if n == 0 {
		return
	}

	warnIgnoredRedirections(p, stderr)

	pipeR, pipeW, err := allocatePipes(n - 1)
	if err != nil {
		fmt.Fprintf(stderr, "myshell: %v\n", err)
		return
	}

	var redirIn, redirOut *os.File
	skip := make([]bool, n)

	if in := p.InFile(); in != "" {
		f, err := os.Open(in)
		if err != nil {
			fmt.Fprintf(stderr, "myshell: unable to open input file %s: %v\n", in, err)
			skip[0] = true
		} else {
			redirIn = f
			defer redirIn.Close()
		}
	}
	if out := p.OutFile(); out != "" {
		f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Fprintf(stderr, "myshell: failed to open output file %s: %v\n", out, err)
			skip[n-1] = true
		} else {
			redirOut = f
			defer redirOut.Close()
		}
	}

	cmds := make([]*exec.Cmd, n)
	for i, st := range p.Stages {
		if skip[i] {
			continue
		}
		cmd := exec.Command(st.Args[0], st.Args[1:]...)
		cmd.Stderr = stderr

		switch {
		case i == 0 && redirIn != nil:
			cmd.Stdin = redirIn
		case i == 0:
			cmd.Stdin = stdin
		case skip[i-1]:
			// The previous stage never started; this stage sees EOF
			// immediately instead of hanging on a pipe nothing writes to.
			cmd.Stdin = nil
		default:
			cmd.Stdin = pipeR[i-1]
		}

		switch {
		case i == n-1 && redirOut != nil:
			cmd.Stdout = redirOut
		case i == n-1:
			cmd.Stdout = stdout
		default:
			cmd.Stdout = pipeW[i]
		}

		cmds[i] = cmd
	}

	fallbackToForeground := p.Background && s.jobs.Full()
	if fallbackToForeground {
		fmt.Fprintln(stderr, "myshell: job table full; running in foreground")
	}

	firstPID := 0
	for i, cmd := range cmds {
		if cmd == nil {
			continue
		}
		if firstPID == 0 {
			cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: 0}
		} else {
			cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: firstPID}
		}
		if err := cmd.Start(); err != nil {
			fmt.Fprintf(stderr, "myshell: %s: %v\n", p.Stages[i].Args[0], err)
			skip[i] = true
			cmds[i] = nil
			continue
		}
		if firstPID == 0 {
			firstPID = cmd.Process.Pid
		}
	}

	// Close the parent's copy of every pipe fd now that each started
	// child has its own dup'd copy. os/exec never closes a
	// caller-supplied *os.File after Start(), so without this a
	// downstream stage's read end would never see EOF: the parent
	// would still be holding every write end open for the life of
	// Execute.
	closeAll(pipeR, pipeW)

	if firstPID == 0 {
		// No stage managed to start; nothing to wait for or register.
		return
	}

	if p.Background && !fallbackToForeground {
		id, err := s.jobs.Register(firstPID, p.Original)
		if err != nil {
			fmt.Fprintf(stderr, "myshell: %v\n", err)
			return
		}
		fmt.Fprintf(stdout, "[%d] %d\n", id, firstPID)
		return
	}

	s.fg.set(firstPID)
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		_ = cmd.Wait()
	}
	s.fg.clear()
}

// warnIgnoredRedirections flags a redirection on a stage that isn't
// honoured (only stage 0's input and the last stage's output apply)
// instead of dropping it silently.
func warnIgnoredRedirections(p pipeline.Pipeline, stderr io.Writer) {
	n := len(p.Stages)
	for i, st := range p.Stages {
		if i != 0 && st.InFile != "" {
			fmt.Fprintf(stderr, "myshell: redirection on stage %d of %d is ignored (only stage 0's input and the last stage's output apply)\n", i+1, n)
		}
		if i != n-1 && st.OutFile != "" {
			fmt.Fprintf(stderr, "myshell: redirection on stage %d of %d is ignored (only stage 0's input and the last stage's output apply)\n", i+1, n)
		}
	}
}

// allocatePipes creates count pipe pairs via unix.Pipe2, wrapping the
// raw fds into *os.File pairs. On failure, any already-allocated pairs
// are closed before the error is returned.
func allocatePipes(count int) (readers, writers []*os.File, err error) {
	readers = make([]*os.File, count)
	writers = make([]*os.File, count)
	for i := 0; i < count; i++ {
		var fds [2]int
		if perr := unix.Pipe2(fds[:], unix.O_CLOEXEC); perr != nil {
			closeAll(readers[:i], writers[:i])
			return nil, nil, fmt.Errorf("pipe allocation failed: %w", perr)
		}
		readers[i] = os.NewFile(uintptr(fds[0]), fmt.Sprintf("pipe%d-r", i))
		writers[i] = os.NewFile(uintptr(fds[1]), fmt.Sprintf("pipe%d-w", i))
	}
	return readers, writers, nil
}

func closeAll(readers, writers []*os.File) {
	for _, f := range readers {
		if f != nil {
			f.Close()
		}
	}
	for _, f := range writers {
		if f != nil {
			f.Close()
		}
	}
}
