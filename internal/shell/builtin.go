package shell

import (
	"fmt"
	"io"
	"os"

	"myshell/internal/jobs"
	"myshell/internal/pipeline"
)

// tryBuiltin recognises cd/jobs/exit on a single-stage, non-background
// pipeline and runs them in the shell process itself. Built-ins are
// deliberately not recognised inside a multi-stage pipeline or in
// background: built-ins run in the shell, everything else forks.
func (s *Shell) tryBuiltin(p pipeline.Pipeline, stdout, stderr io.Writer) (handled bool, err error) {
	if p.Background || len(p.Stages) != 1 {
		return false, nil
	}

	args := p.Stages[0].Args
	switch args[0] {
	case "cd":
		return true, s.builtinCd(args, stderr)
	case "jobs":
		fmt.Fprint(stdout, jobs.Format(s.jobs.Snapshot()))
		return true, nil
	case "exit":
		return true, ErrExit
	}
	return false, nil
}

// builtinCd changes the shell's working directory. A missing argument
// or a failing chdir is a non-fatal diagnostic; there is no $HOME
// fallback.
func (s *Shell) builtinCd(args []string, stderr io.Writer) error {
	if len(args) < 2 {
		fmt.Fprintln(stderr, "cd: expected argument")
		return nil
	}
	if err := os.Chdir(args[1]); err != nil {
		fmt.Fprintf(stderr, "cd: %v\n", err)
	}
	return nil
}
