package shell

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineLength bounds one input line.
const maxLineLength = 4096

// Run drives the interactive loop: print the prompt, flush, read a
// line, strip the trailing newline, handle EOF and the literal "exit",
// and otherwise hand the line to Dispatch. Run returns a non-nil error
// only when getcwd fails or reading stdin fails with an error other
// than EOF; command errors never end the loop.
func (s *Shell) Run(stdin io.Reader, stdout, stderr io.Writer) error {
	s.WatchSignals(stdout, func() (string, error) { return s.promptLine() })

	for {
		prompt, err := s.promptLine()
		if err != nil {
			return fmt.Errorf("getcwd: %w", err)
		}
		fmt.Fprint(stdout, prompt)

		line, eof, err := readLine(stdin)
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}
		if eof && line == "" {
			fmt.Fprintln(stdout, "\nthanks for using my shell")
			return nil
		}
		if len(line) > maxLineLength {
			line = line[:maxLineLength]
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == "exit" {
			fmt.Fprintln(stdout, "exiting shell...")
			return nil
		}

		if dispatchErr := s.Dispatch(line, stdin, stdout, stderr); dispatchErr == ErrExit {
			fmt.Fprintln(stdout, "exiting shell...")
			return nil
		}
	}
}

// readLine reads up to and including a newline from stdin, one byte at
// a time, and returns the line without its trailing newline. A
// byte-at-a-time read (rather than a buffered reader) is deliberate:
// a buffered reader would read ahead past the line into data a
// non-redirected child stage (one inheriting the shell's stdin
// directly) still needs to see.
func readLine(stdin io.Reader) (line string, eof bool, err error) {
	var buf strings.Builder
	var b [1]byte
	for {
		n, rerr := stdin.Read(b[:])
		if n > 0 {
			if b[0] == '\n' {
				return buf.String(), false, nil
			}
			buf.WriteByte(b[0])
		}
		if rerr != nil {
			if rerr == io.EOF {
				return buf.String(), true, nil
			}
			return "", false, rerr
		}
	}
}

// promptLine renders "@LaxmanGupta(Myshell):<cwd> >> ".
func (s *Shell) promptLine() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("@LaxmanGupta(Myshell):%s >> ", cwd), nil
}
