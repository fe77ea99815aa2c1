// Package shell implements the command-execution core: the plan
// builder, built-in dispatcher, pipeline executor, and signal layer.
// It is orchestrated by Shell, which also implements the REPL loop.
package shell

import (
	"errors"
	"fmt"
	"io"

	"myshell/internal/jobs"
	"myshell/internal/pipeline"
)

// ErrExit is returned by Dispatch when the "exit" builtin was
// invoked; the REPL loop (repl.go) treats it as a clean termination
// signal.
var ErrExit = errors.New("exit")

// Shell holds the state shared across one interactive session: the
// job table and the foreground handle the signal layer reads.
type Shell struct {
	jobs *jobs.Table
	fg   foregroundHandle
}

// New returns a Shell with an empty job table and no foreground
// pipeline.
func New() *Shell {
	return &Shell{jobs: jobs.NewTable()}
}

// Dispatch tokenizes and runs one input line: a parse error is
// reported and the shell continues (nil error); a single-stage,
// non-background builtin is run in-process; everything else goes to
// the pipeline executor. Dispatch returns ErrExit only when the line
// invoked the "exit" builtin.
func (s *Shell) Dispatch(line string, stdin io.Reader, stdout, stderr io.Writer) error {
	p, err := pipeline.Tokenize(line)
	if err != nil {
		fmt.Fprintf(stderr, "myshell: %v\n", err)
		return nil
	}
	if p.Empty() {
		return nil
	}

	if handled, berr := s.tryBuiltin(p, stdout, stderr); handled {
		return berr
	}

	s.Execute(p, stdin, stdout, stderr)
	return nil
}
