package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Exceeding either limit is a reported parse error, not a silent
// truncation.
const (
	MaxArgsPerStage = 64
	MaxStages       = 64
)

// Sentinel errors identify each parse-error kind. Errors found inside a
// stage, and the limit errors, are wrapped with context via fmt.Errorf;
// an unterminated quote found while splitting the line into stages is
// returned bare. errors.Is matches either form.
var (
	ErrUnterminatedQuote = errors.New("unterminated quote")
	ErrMissingFilename   = errors.New("redirection operator with no following filename")
	ErrEmptyStage        = errors.New("empty stage")
	ErrTooManyArgs       = errors.New("too many arguments in stage")
	ErrTooManyStages     = errors.New("too many stages in pipeline")
)

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// Tokenize converts one line of input (no trailing newline) into a
// Pipeline. An empty line yields a zero-stage Pipeline and a nil
// error.
func Tokenize(line string) (Pipeline, error) {
	background, content := stripBackground(line)
	original := strings.TrimSpace(content)

	if strings.TrimSpace(content) == "" {
		return Pipeline{}, nil
	}

	stageStrings, err := splitTopLevel(content)
	if err != nil {
		return Pipeline{}, err
	}

	if len(stageStrings) > MaxStages {
		return Pipeline{}, fmt.Errorf("%w: got %d, max %d", ErrTooManyStages, len(stageStrings), MaxStages)
	}

	stages := make([]Stage, 0, len(stageStrings))
	for idx, s := range stageStrings {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return Pipeline{}, fmt.Errorf("%w: stage %d of the pipeline is empty", ErrEmptyStage, idx+1)
		}
		stage, err := parseStage(trimmed)
		if err != nil {
			return Pipeline{}, fmt.Errorf("stage %d: %w", idx+1, err)
		}
		stages = append(stages, stage)
	}

	return Pipeline{
		Stages:     stages,
		Background: background,
		Original:   original,
	}, nil
}

// stripBackground removes a trailing "&" (after stripping trailing
// spaces) and reports whether one was found.
func stripBackground(line string) (bool, string) {
	end := len(line)
	for end > 0 && isSpace(line[end-1]) {
		end--
	}
	if end == 0 || line[end-1] != '&' {
		return false, line
	}
	end--
	for end > 0 && isSpace(line[end-1]) {
		end--
	}
	return true, line[:end]
}

// splitTopLevel splits s on '|' outside double-quoted regions.
func splitTopLevel(s string) ([]string, error) {
	var parts []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case c == '|' && !inQuotes:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, ErrUnterminatedQuote
	}
	parts = append(parts, cur.String())
	return parts, nil
}

// parseState names the per-stage lexer's states.
type parseState int

const (
	stateNormal parseState = iota
	stateInQuotes
	stateReadingFilename
	stateReadingQuotedFilename
)

// parseStage runs the per-stage lexer over a single already-trimmed
// stage string (which may still itself contain a leading double quote,
// as in `"hello world"`).
func parseStage(s string) (Stage, error) {
	var args []string
	var cur strings.Builder
	var filename strings.Builder
	var inFile, outFile string
	var redirChar byte

	flush := func() {
		if cur.Len() > 0 {
			args = append(args, cur.String())
			cur.Reset()
		}
	}

	state := stateNormal
	i := 0
	n := len(s)
	for i < n {
		c := s[i]
		switch state {
		case stateNormal:
			switch {
			case isSpace(c):
				flush()
				i++
			case c == '"':
				state = stateInQuotes
				i++
			case c == '<' || c == '>':
				flush()
				redirChar = c
				i++
				for i < n && isSpace(s[i]) {
					i++
				}
				if i >= n {
					return Stage{}, ErrMissingFilename
				}
				filename.Reset()
				if s[i] == '"' {
					state = stateReadingQuotedFilename
					i++
				} else {
					state = stateReadingFilename
				}
			default:
				cur.WriteByte(c)
				i++
			}

		case stateInQuotes:
			// Spaces and '<'/'>' are preserved verbatim inside quotes.
			if c == '"' {
				state = stateNormal
			} else {
				cur.WriteByte(c)
			}
			i++

		case stateReadingFilename:
			if isSpace(c) {
				assignFilename(redirChar, filename.String(), &inFile, &outFile)
				state = stateNormal
				// leave i where it is so the normal state consumes the space
			} else {
				filename.WriteByte(c)
				i++
			}

		case stateReadingQuotedFilename:
			if c == '"' {
				assignFilename(redirChar, filename.String(), &inFile, &outFile)
				state = stateNormal
				i++
			} else {
				filename.WriteByte(c)
				i++
			}
		}
	}

	switch state {
	case stateInQuotes:
		return Stage{}, ErrUnterminatedQuote
	case stateReadingQuotedFilename:
		return Stage{}, ErrUnterminatedQuote
	case stateReadingFilename:
		// End of stage terminates an unquoted filename.
		if filename.Len() == 0 {
			return Stage{}, ErrMissingFilename
		}
		assignFilename(redirChar, filename.String(), &inFile, &outFile)
	}
	flush()

	if len(args) == 0 {
		return Stage{}, ErrEmptyStage
	}
	if len(args) > MaxArgsPerStage {
		return Stage{}, fmt.Errorf("%w: got %d, max %d", ErrTooManyArgs, len(args), MaxArgsPerStage)
	}

	return Stage{Args: args, InFile: inFile, OutFile: outFile}, nil
}

func assignFilename(redirChar byte, name string, inFile, outFile *string) {
	if redirChar == '<' {
		*inFile = name
	} else {
		*outFile = name
	}
}
