package chunks

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	separatorWidth        = 80
	editedMarker          = "*"
	uneditedMarker        = " "
	originalLineFormat    = "%s-%4d %s\n"
	replacementLineFormat = " +     %s\n"
)

var separatorLine = strings.Repeat("-", separatorWidth) + "\n"

// WriteDebugDump writes a trace of chunkList for a failed reformatting decision.
// Original lines are numbered from the chunk offset and marked with "*" when they
// belong to editedLines; replacement lines follow unnumbered. The texts are not
// consulted and no input is modified.
func WriteDebugDump(writer io.Writer, chunkList []Chunk, originalText string, replacementText string, editedLines LineSet) error {
	bufferedWriter := bufio.NewWriter(writer)
	for _, chunk := range chunkList {
		bufferedWriter.WriteString(separatorLine)
		for delta, originalLine := range chunk.Original {
			lineNumber := chunk.Offset + delta
			marker := uneditedMarker
			if editedLines.Contains(lineNumber) {
				marker = editedMarker
			}
			fmt.Fprintf(bufferedWriter, originalLineFormat, marker, lineNumber, originalLine)
		}
		for _, replacementLine := range chunk.Replacement {
			fmt.Fprintf(bufferedWriter, replacementLineFormat, replacementLine)
		}
	}
	bufferedWriter.WriteString(separatorLine)
	return bufferedWriter.Flush()
}
