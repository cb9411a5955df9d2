// Package utils contains general helper functions used across retouch.
package utils

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// File and directory names used across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// MercurialDirectoryName is the name of the Mercurial repository directory.
	MercurialDirectoryName = ".hg"
	// PyprojectFileName is the name of the project configuration file.
	PyprojectFileName = "pyproject.toml"
)

const (
	pathSegmentSeparator = "/"
	doubleStarSegment    = "**"
)

// DeduplicateStrings removes duplicate values from a slice while preserving order.
// The first occurrence of each unique value is kept.
func DeduplicateStrings(values []string) []string {
	encounteredValues := make(map[string]struct{})
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, exists := encounteredValues[value]; !exists {
			encounteredValues[value] = struct{}{}
			result = append(result, value)
		}
	}
	return result
}

// ShouldIgnoreByPath reports whether a path relative to the directory holding a
// .gitignore file matches one of its patterns. Directory paths carry a trailing
// slash. Patterns are evaluated in forward-slash form:
//   - a trailing slash restricts the pattern to directories, and a matching directory
//     also hides every descendant;
//   - a single-segment pattern without a leading slash matches at any depth;
//   - other patterns are anchored and matched segment by segment with filepath.Match;
//   - patterns containing "**" are matched with doublestar.
func ShouldIgnoreByPath(relativePath string, ignorePatterns []string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	isDirectoryPath := strings.HasSuffix(normalizedPath, pathSegmentSeparator)
	normalizedPath = strings.Trim(normalizedPath, pathSegmentSeparator)
	if normalizedPath == "" {
		return false
	}
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)

	for _, patternValue := range ignorePatterns {
		normalizedPattern := strings.ReplaceAll(patternValue, "\\", pathSegmentSeparator)
		isAnchored := strings.HasPrefix(normalizedPattern, pathSegmentSeparator)
		isDirectoryPattern := strings.HasSuffix(normalizedPattern, pathSegmentSeparator)
		trimmedPattern := strings.Trim(normalizedPattern, pathSegmentSeparator)
		if trimmedPattern == "" {
			continue
		}
		patternSegments := strings.Split(trimmedPattern, pathSegmentSeparator)

		// candidate prefixes: every ancestor directory, plus the path itself unless a
		// directory-only pattern meets a file
		candidateLengths := len(pathSegments) - 1
		if !isDirectoryPattern || isDirectoryPath {
			candidateLengths = len(pathSegments)
		}

		if strings.Contains(trimmedPattern, doubleStarSegment) {
			for prefixLength := 1; prefixLength <= candidateLengths; prefixLength++ {
				candidatePath := strings.Join(pathSegments[:prefixLength], pathSegmentSeparator)
				if isMatched, matchError := doublestar.Match(trimmedPattern, candidatePath); matchError == nil && isMatched {
					return true
				}
			}
			continue
		}

		if len(patternSegments) == 1 && !isAnchored {
			for segmentIndex := 0; segmentIndex < candidateLengths; segmentIndex++ {
				isMatched, matchError := filepath.Match(patternSegments[0], pathSegments[segmentIndex])
				if matchError == nil && isMatched {
					return true
				}
			}
			continue
		}

		if len(patternSegments) <= candidateLengths && segmentsMatch(pathSegments[:len(patternSegments)], patternSegments) {
			return true
		}
	}

	return false
}

// segmentsMatch reports whether each pattern segment matches the corresponding
// path segment using filepath.Match semantics.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		isMatched, matchError := filepath.Match(patternSegment, pathSegments[segmentIndex])
		if matchError != nil || !isMatched {
			return false
		}
	}
	return true
}
