// Package linebuffer reads a byte slice one line at a time with single-line lookahead.
package linebuffer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const lineTerminator = '\n'

// ErrEndOfInput is returned by NextLine once every line has been consumed.
var ErrEndOfInput = errors.New("end of input")

// DecodeError reports a line whose bytes are not valid UTF-8 text.
type DecodeError struct {
	Offset int
	Line   []byte
}

func (decodeError *DecodeError) Error() string {
	return fmt.Sprintf("invalid utf-8 in line starting at byte %d: %q", decodeError.Offset, decodeError.Line)
}

// Buffer iterates over the lines of an in-memory byte slice. Every consumed line
// records the cursor position it started at, so reads can be undone in reverse order.
// A Buffer is owned by a single reader and is not safe for concurrent use.
type Buffer struct {
	data       []byte
	position   int
	lineStarts []int
}

// New returns a Buffer positioned at the start of data.
func New(data []byte) *Buffer {
	return &Buffer{data: data}
}

// NextLine consumes the next line and returns it without the trailing line terminator.
// A line that fails UTF-8 decoding is still consumed and reported as a *DecodeError.
func (buffer *Buffer) NextLine() (string, error) {
	if buffer.position >= len(buffer.data) {
		return "", ErrEndOfInput
	}
	lineStart := buffer.position
	buffer.lineStarts = append(buffer.lineStarts, lineStart)

	remaining := buffer.data[lineStart:]
	lineEnd := len(buffer.data)
	if terminatorIndex := bytes.IndexByte(remaining, lineTerminator); terminatorIndex >= 0 {
		lineEnd = lineStart + terminatorIndex + 1
	}
	buffer.position = lineEnd

	lineBytes := bytes.TrimRight(buffer.data[lineStart:lineEnd], string(lineTerminator))
	if !utf8.Valid(lineBytes) {
		return "", &DecodeError{Offset: lineStart, Line: append([]byte(nil), lineBytes...)}
	}
	return string(lineBytes), nil
}

// Unread moves the cursor back to the start of the most recently consumed line.
// It returns false when no line has been consumed.
func (buffer *Buffer) Unread() bool {
	lineCount := len(buffer.lineStarts)
	if lineCount == 0 {
		return false
	}
	buffer.position = buffer.lineStarts[lineCount-1]
	buffer.lineStarts = buffer.lineStarts[:lineCount-1]
	return true
}

// PeekStartsWith reports whether the next line starts with any of the prefixes
// without consuming it. At the end of input it returns false.
func (buffer *Buffer) PeekStartsWith(prefixes ...string) (bool, error) {
	line, readError := buffer.NextLine()
	if errors.Is(readError, ErrEndOfInput) {
		return false, nil
	}
	buffer.Unread()
	if readError != nil {
		return false, readError
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(line, prefix) {
			return true, nil
		}
	}
	return false, nil
}

// LinesConsumed returns the number of lines read and not undone.
func (buffer *Buffer) LinesConsumed() int {
	return len(buffer.lineStarts)
}
