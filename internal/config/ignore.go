// Package config locates and loads project configuration and ignore files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/retouch/internal/utils"
)

const (
	commentPrefix  = "#"
	negationPrefix = "!"
)

// LoadIgnoreFilePatterns reads a .gitignore-style file and returns its patterns.
// A missing file yields no patterns. Negated patterns are not supported and are skipped.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) || strings.HasPrefix(trimmedLine, negationPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return utils.DeduplicateStrings(ignorePatterns), nil
}

// LoadDirectoryIgnoreRules returns the patterns of the .gitignore file directly inside directoryPath.
func LoadDirectoryIgnoreRules(directoryPath string) ([]string, error) {
	gitIgnoreFilePath := filepath.Join(directoryPath, utils.GitIgnoreFileName)
	ignorePatterns, loadError := LoadIgnoreFilePatterns(gitIgnoreFilePath)
	if loadError != nil {
		return nil, fmt.Errorf("loading %s from %s: %w", utils.GitIgnoreFileName, directoryPath, loadError)
	}
	return ignorePatterns, nil
}
