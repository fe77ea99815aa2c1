package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"myshell/internal/pipeline"
)

func mustTokenize(t *testing.T, line string) pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.Tokenize(line)
	if err != nil {
		t.Fatalf("tokenize(%q): %v", line, err)
	}
	return p
}

func TestExecuteSingleCommand(t *testing.T) {
	s := New()
	var stdout, stderr bytes.Buffer

	p := mustTokenize(t, "echo hello")
	s.Execute(p, strings.NewReader(""), &stdout, &stderr)

	if got := stdout.String(); got != "hello\n" {
		t.Fatalf("stdout = %q, want %q", got, "hello\n")
	}
	if stderr.String() != "" {
		t.Fatalf("stderr = %q, want empty", stderr.String())
	}
}

func TestExecutePipeline(t *testing.T) {
	s := New()
	var stdout, stderr bytes.Buffer

	p := mustTokenize(t, "echo -n aaa | wc -c")
	s.Execute(p, strings.NewReader(""), &stdout, &stderr)

	if got := strings.TrimSpace(stdout.String()); got != "3" {
		t.Fatalf("stdout = %q, want %q", stdout.String(), "3")
	}
}

func TestExecuteOutputRedirection(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")

	s := New()
	var stdout, stderr bytes.Buffer
	p := mustTokenize(t, "echo hello > "+outPath)
	s.Execute(p, strings.NewReader(""), &stdout, &stderr)

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("file contents = %q, want %q", string(data), "hello\n")
	}
}

func TestExecuteInputRedirection(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(inPath, []byte("line one\nline two\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := New()
	var stdout, stderr bytes.Buffer
	p := mustTokenize(t, "wc -l < "+inPath)
	s.Execute(p, strings.NewReader(""), &stdout, &stderr)

	if got := strings.TrimSpace(stdout.String()); got != "2" {
		t.Fatalf("stdout = %q, want %q", stdout.String(), "2")
	}
}

func TestExecuteRoundTripRedirection(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")

	s := New()
	var stdout, stderr bytes.Buffer
	s.Execute(mustTokenize(t, "echo hello > "+outPath), strings.NewReader(""), &stdout, &stderr)
	stdout.Reset()
	s.Execute(mustTokenize(t, "cat < "+outPath), strings.NewReader(""), &stdout, &stderr)

	if got := stdout.String(); got != "hello\n" {
		t.Fatalf("stdout = %q, want %q", got, "hello\n")
	}
}

func TestExecuteMissingInputFileIsNonFatal(t *testing.T) {
	s := New()
	var stdout, stderr bytes.Buffer

	p := mustTokenize(t, "cat < /nonexistent/path/definitely")
	s.Execute(p, strings.NewReader(""), &stdout, &stderr)

	if stderr.Len() == 0 {
		t.Fatalf("expected a diagnostic on stderr")
	}
}

func TestExecuteBackgroundRegistersJob(t *testing.T) {
	s := New()
	var stdout, stderr bytes.Buffer

	p := mustTokenize(t, "sleep 0.2 &")
	s.Execute(p, strings.NewReader(""), &stdout, &stderr)

	if !strings.HasPrefix(stdout.String(), "[1] ") {
		t.Fatalf("stdout = %q, want a \"[1] <pid>\" line", stdout.String())
	}

	snap := s.jobs.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 active job immediately after launch, got %d", len(snap))
	}
}

func TestExecuteEmptyPipelineIsNoop(t *testing.T) {
	s := New()
	var stdout, stderr bytes.Buffer
	s.Execute(pipeline.Pipeline{}, strings.NewReader(""), &stdout, &stderr)
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Fatalf("expected no output for an empty pipeline")
	}
}

func TestExecuteExecFailureDoesNotAbortPipeline(t *testing.T) {
	s := New()
	var stdout, stderr bytes.Buffer

	p := mustTokenize(t, `"hello world" | cat`)
	s.Execute(p, strings.NewReader(""), &stdout, &stderr)

	if stderr.Len() == 0 {
		t.Fatalf("expected a diagnostic for the unexecutable first stage")
	}
}
