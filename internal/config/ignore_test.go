package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/retouch/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create directory for %s: %v", filePath, makeDirError)
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadIgnoreFilePatterns verifies comments, blank lines, negations and duplicates are dropped.
func TestLoadIgnoreFilePatterns(testingHandle *testing.T) {
	ignoreFilePath := filepath.Join(testingHandle.TempDir(), utils.GitIgnoreFileName)
	writeTestFile(testingHandle, ignoreFilePath, "# generated\n\nbuild/\n*.pyc\n!keep.pyc\n  *.pyc  \n")

	patternList, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreFilePatterns failed: %v", loadError)
	}
	expectedPatterns := []string{"build/", "*.pyc"}
	if !reflect.DeepEqual(patternList, expectedPatterns) {
		testingHandle.Fatalf("unexpected patterns: got %v want %v", patternList, expectedPatterns)
	}
}

// TestLoadDirectoryIgnoreRulesMissingFile verifies a directory without .gitignore yields no rules.
func TestLoadDirectoryIgnoreRulesMissingFile(testingHandle *testing.T) {
	patternList, loadError := LoadDirectoryIgnoreRules(testingHandle.TempDir())
	if loadError != nil {
		testingHandle.Fatalf("LoadDirectoryIgnoreRules failed: %v", loadError)
	}
	if len(patternList) != 0 {
		testingHandle.Fatalf("expected no patterns, got %v", patternList)
	}
}

// TestLoadDirectoryIgnoreRulesUnreadable verifies a .gitignore that is a directory reports an error.
func TestLoadDirectoryIgnoreRulesUnreadable(testingHandle *testing.T) {
	directoryPath := testingHandle.TempDir()
	if makeDirError := os.Mkdir(filepath.Join(directoryPath, utils.GitIgnoreFileName), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create directory: %v", makeDirError)
	}
	if _, loadError := LoadDirectoryIgnoreRules(directoryPath); loadError == nil {
		testingHandle.Fatalf("expected error when .gitignore is a directory")
	}
}
