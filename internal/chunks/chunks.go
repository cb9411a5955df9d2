// Package chunks models aligned regions of original and replacement text and
// renders them for debugging reformatting decisions.
package chunks

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Chunk is one aligned region of a diff. Offset is the 1-based number of the
// first original line; chunks are ordered by offset and never overlap.
type Chunk struct {
	Offset      int
	Original    []string
	Replacement []string
}

// LineSet is a set of 1-based line numbers in original-text coordinates.
type LineSet map[int]struct{}

// NewLineSet builds a LineSet from line numbers.
func NewLineSet(lineNumbers ...int) LineSet {
	lineSet := make(LineSet, len(lineNumbers))
	for _, lineNumber := range lineNumbers {
		lineSet[lineNumber] = struct{}{}
	}
	return lineSet
}

// Contains reports whether lineNumber is in the set.
func (lineSet LineSet) Contains(lineNumber int) bool {
	_, found := lineSet[lineNumber]
	return found
}

// SplitLines splits text on line terminators, dropping the terminators.
// A trailing terminator does not produce an empty final line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines joins lines back into text, adding a line feed after each line.
func JoinLines(lines []string) string {
	var builder strings.Builder
	for _, line := range lines {
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	return builder.String()
}

// FromTexts aligns original and replacement line by line and returns chunks
// covering the whole original text, unchanged regions included.
func FromTexts(originalText string, replacementText string) []Chunk {
	originalLines := SplitLines(originalText)
	replacementLines := SplitLines(replacementText)
	matcher := difflib.NewMatcherWithJunk(originalLines, replacementLines, false, nil)
	opCodes := matcher.GetOpCodes()
	chunkList := make([]Chunk, 0, len(opCodes))
	for _, opCode := range opCodes {
		chunkList = append(chunkList, Chunk{
			Offset:      opCode.I1 + 1,
			Original:    originalLines[opCode.I1:opCode.I2],
			Replacement: replacementLines[opCode.J1:opCode.J2],
		})
	}
	return chunkList
}

// IsUnchanged reports whether the chunk replaces its lines with identical lines.
func (chunk Chunk) IsUnchanged() bool {
	if len(chunk.Original) != len(chunk.Replacement) {
		return false
	}
	for index := range chunk.Original {
		if chunk.Original[index] != chunk.Replacement[index] {
			return false
		}
	}
	return true
}
