// Package output renders command results.
package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/retouch/internal/chunks"
	"github.com/temirov/retouch/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header

	fileHeaderFormat    = "=== %s (%d/%d chunks changed)\n"
	skippedFileFormat   = "=== %s (skipped: %s)\n"
	unsupportedMessage  = "unsupported format %q"
	emptyListingNewline = "\n"
)

// RenderCandidatesRaw lists one root-relative path per line.
func RenderCandidatesRaw(listing types.CandidateListing) string {
	if len(listing.Files) == 0 {
		return ""
	}
	return strings.Join(listing.Files, "\n") + emptyListingNewline
}

// RenderCandidatesJSON marshals the listing as an indented JSON object.
func RenderCandidatesJSON(listing types.CandidateListing) (string, error) {
	if listing.Files == nil {
		listing.Files = []string{}
	}
	encoded, jsonEncodeError := json.MarshalIndent(listing, indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return "", jsonEncodeError
	}
	return string(encoded) + "\n", nil
}

// RenderCandidatesXML marshals the listing as an XML document.
func RenderCandidatesXML(listing types.CandidateListing) (string, error) {
	encoded, xmlMarshalError := xml.MarshalIndent(listing, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded) + "\n", nil
}

// RenderCandidates dispatches on format.
func RenderCandidates(listing types.CandidateListing, format string) (string, error) {
	switch format {
	case types.FormatRaw:
		return RenderCandidatesRaw(listing), nil
	case types.FormatJSON:
		return RenderCandidatesJSON(listing)
	case types.FormatXML:
		return RenderCandidatesXML(listing)
	default:
		return "", fmt.Errorf(unsupportedMessage, format)
	}
}

// WriteFileReports writes a header with the changed chunk count and the chunk debug
// dump for every report in order.
func WriteFileReports(writer io.Writer, reports []types.FileReport) error {
	for _, report := range reports {
		if report.Skipped {
			if _, writeError := fmt.Fprintf(writer, skippedFileFormat, report.Path, report.SkipReason); writeError != nil {
				return writeError
			}
			continue
		}
		chunkList := chunks.FromTexts(report.OriginalText, report.ReplacementText)
		if _, writeError := fmt.Fprintf(writer, fileHeaderFormat, report.Path, countChangedChunks(chunkList), len(chunkList)); writeError != nil {
			return writeError
		}
		if dumpError := chunks.WriteDebugDump(writer, chunkList, report.OriginalText, report.ReplacementText, chunks.NewLineSet(report.EditedLines...)); dumpError != nil {
			return dumpError
		}
	}
	return nil
}

func countChangedChunks(chunkList []chunks.Chunk) int {
	changed := 0
	for _, chunk := range chunkList {
		if !chunk.IsUnchanged() {
			changed++
		}
	}
	return changed
}
