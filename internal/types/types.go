// Package types defines the cross-package data structures used by the retouch CLI.
package types

import "encoding/xml"

const (
	CommandRoot   = "root"
	CommandFiles  = "files"
	CommandChunks = "chunks"
	CommandInit   = "init"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// CandidateListing is the output of the files command.
type CandidateListing struct {
	XMLName xml.Name `json:"-" xml:"candidates"`
	Root    string   `json:"root" xml:"root"`
	Files   []string `json:"files" xml:"files>file"`
}

// FileReport carries everything needed to render the chunk diagnostics of one file.
type FileReport struct {
	Path            string
	OriginalText    string
	ReplacementText string
	EditedLines     []int
	Skipped         bool
	SkipReason      string
}
