// Package gitdiff extracts edited line numbers from zero-context unified diffs.
package gitdiff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/temirov/retouch/internal/linebuffer"
)

const (
	hunkHeaderPrefix    = "@@ "
	hunkHeaderTerminal  = "@@"
	removedLinePrefix   = "-"
	addedLinePrefix     = "+"
	noNewlineLinePrefix = "\\"
	rangeSeparator      = ","
)

// ErrMalformedHunk is returned for hunk headers that cannot be parsed.
var ErrMalformedHunk = errors.New("malformed hunk header")

// ParseEditedLineNumbers returns the 1-based line numbers, in the new version of
// the file, that were added or changed according to patch. The patch is expected
// to carry no context lines (git diff -U0). Pure deletions contribute no lines.
func ParseEditedLineNumbers(patch []byte) ([]int, error) {
	buffer := linebuffer.New(patch)
	var lineNumbers []int
	for {
		line, readError := buffer.NextLine()
		if errors.Is(readError, linebuffer.ErrEndOfInput) {
			return lineNumbers, nil
		}
		if readError != nil {
			return nil, readError
		}
		if !strings.HasPrefix(line, hunkHeaderPrefix) {
			continue
		}
		startLine, lineCount, parseError := parseHunkHeader(line)
		if parseError != nil {
			return nil, parseError
		}
		for lineNumber := startLine; lineNumber < startLine+lineCount; lineNumber++ {
			lineNumbers = append(lineNumbers, lineNumber)
		}
		if skipError := skipHunkBody(buffer); skipError != nil {
			return nil, skipError
		}
	}
}

// skipHunkBody consumes removed, added and "no newline" lines following a hunk header.
func skipHunkBody(buffer *linebuffer.Buffer) error {
	for {
		isBodyLine, peekError := buffer.PeekStartsWith(removedLinePrefix, addedLinePrefix, noNewlineLinePrefix)
		if peekError != nil {
			return peekError
		}
		if !isBodyLine {
			return nil
		}
		if _, readError := buffer.NextLine(); readError != nil {
			return readError
		}
	}
}

// parseHunkHeader reads the new-file range of "@@ -a[,b] +c[,d] @@".
func parseHunkHeader(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 || fields[3] != hunkHeaderTerminal || !strings.HasPrefix(fields[1], removedLinePrefix) || !strings.HasPrefix(fields[2], addedLinePrefix) {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedHunk, line)
	}
	startText, countText, hasCount := strings.Cut(strings.TrimPrefix(fields[2], addedLinePrefix), rangeSeparator)
	startLine, startError := strconv.Atoi(startText)
	if startError != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedHunk, line)
	}
	lineCount := 1
	if hasCount {
		parsedCount, countError := strconv.Atoi(countText)
		if countError != nil || parsedCount < 0 {
			return 0, 0, fmt.Errorf("%w: %q", ErrMalformedHunk, line)
		}
		lineCount = parsedCount
	}
	return startLine, lineCount, nil
}

// Runner obtains a zero-context diff of one file against a revision.
type Runner interface {
	Diff(ctx context.Context, root string, revision string, path string) ([]byte, error)
}

// GitRunner runs the git executable.
type GitRunner struct{}

// Diff runs git diff -U0 in root, comparing path in the working tree with revision.
func (GitRunner) Diff(ctx context.Context, root string, revision string, path string) ([]byte, error) {
	// #nosec G204
	command := exec.CommandContext(ctx, "git", "diff", "-U0", "--no-color", "--no-ext-diff", revision, "--", path)
	command.Dir = root
	var standardOutput, standardError bytes.Buffer
	command.Stdout = &standardOutput
	command.Stderr = &standardError
	if runError := command.Run(); runError != nil {
		return nil, fmt.Errorf("git diff %s -- %s: %w: %s", revision, path, runError, strings.TrimSpace(standardError.String()))
	}
	return standardOutput.Bytes(), nil
}

// EditedLineNumbers runs the diff for path and parses its edited line numbers.
func EditedLineNumbers(ctx context.Context, runner Runner, root string, revision string, path string) ([]int, error) {
	patch, diffError := runner.Diff(ctx, root, revision, path)
	if diffError != nil {
		return nil, diffError
	}
	return ParseEditedLineNumbers(patch)
}

var _ Runner = GitRunner{}
