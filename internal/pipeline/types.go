// Package pipeline tokenizes a shell command line into a structured
// pipeline of stages. It performs no I/O and makes no process calls.
package pipeline

// Stage is one process slot in a pipeline: an argv plus optional
// per-stage redirection file references. Only stage 0's InFile and the
// last stage's OutFile are honoured at execution time (see Pipeline).
type Stage struct {
	// Args is the stage's argv; Args[0] is the program name. A parsed
	// stage always has at least one argument.
	Args []string

	// InFile, when non-empty, is the path named by a "<" operator on
	// this stage.
	InFile string

	// OutFile, when non-empty, is the path named by a ">" operator on
	// this stage.
	OutFile string
}

// Pipeline is an ordered sequence of stages chained by anonymous pipes,
// plus the background flag and the original command text. A blank
// input line yields a Pipeline with no stages (see Empty).
type Pipeline struct {
	Stages []Stage

	// Background is true when the line ended in a trailing "&".
	Background bool

	// Original is the pre-tokenisation command text, trimmed of a
	// trailing "&" and surrounding whitespace. Retained for job
	// display (the "jobs" builtin and the "[id] Done <command>" line).
	Original string
}

// Empty reports whether the pipeline carries no stages, i.e. the input
// line was blank.
func (p Pipeline) Empty() bool {
	return len(p.Stages) == 0
}

// InFile returns the pipeline-level input redirection: stage 0's
// InFile, if set.
func (p Pipeline) InFile() string {
	if len(p.Stages) == 0 {
		return ""
	}
	return p.Stages[0].InFile
}

// OutFile returns the pipeline-level output redirection: the last
// stage's OutFile, if set.
func (p Pipeline) OutFile() string {
	if len(p.Stages) == 0 {
		return ""
	}
	return p.Stages[len(p.Stages)-1].OutFile
}
