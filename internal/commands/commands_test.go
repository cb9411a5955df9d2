package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/temirov/retouch/internal/commands"
	"github.com/temirov/retouch/internal/config"
	"github.com/temirov/retouch/internal/verify"
)

type fixtureFile struct {
	relativePath string
	content      string
}

func createRepository(testingInstance *testing.T, files []fixtureFile) string {
	testingInstance.Helper()
	repositoryRoot, resolveError := filepath.EvalSymlinks(testingInstance.TempDir())
	if resolveError != nil {
		testingInstance.Fatalf("resolve temp dir: %v", resolveError)
	}
	if makeError := os.Mkdir(filepath.Join(repositoryRoot, ".git"), 0o755); makeError != nil {
		testingInstance.Fatalf("create .git: %v", makeError)
	}
	for _, file := range files {
		filePath := filepath.Join(repositoryRoot, filepath.FromSlash(file.relativePath))
		if makeError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeError != nil {
			testingInstance.Fatalf("create directory for %s: %v", file.relativePath, makeError)
		}
		if writeError := os.WriteFile(filePath, []byte(file.content), 0o644); writeError != nil {
			testingInstance.Fatalf("write %s: %v", file.relativePath, writeError)
		}
	}
	return repositoryRoot
}

var sampleRepositoryFiles = []fixtureFile{
	{relativePath: ".gitignore", content: "ignored.py\n"},
	{relativePath: "a.py", content: "a = 1\n"},
	{relativePath: "ignored.py", content: "x = 1\n"},
	{relativePath: "notes.txt", content: "notes\n"},
	{relativePath: "pkg/b.py", content: "b = 2\n"},
	{relativePath: "build/generated.py", content: "g = 3\n"},
}

// TestGetCandidateFiles verifies default patterns and .gitignore handling.
func TestGetCandidateFiles(testingInstance *testing.T) {
	repositoryRoot := createRepository(testingInstance, sampleRepositoryFiles)
	disabled := false

	testCases := []struct {
		testName      string
		configuration config.ApplicationConfiguration
		expectedFiles []string
	}{
		{
			testName:      "defaults",
			configuration: config.DefaultApplicationConfiguration(),
			expectedFiles: []string{"a.py", "pkg/b.py"},
		},
		{
			testName:      "gitignore disabled",
			configuration: config.DefaultApplicationConfiguration().Merge(config.ApplicationConfiguration{UseGitignore: &disabled}),
			expectedFiles: []string{"a.py", "ignored.py", "pkg/b.py"},
		},
		{
			testName: "extend exclude",
			configuration: config.DefaultApplicationConfiguration().Merge(config.ApplicationConfiguration{
				FormatterSettings: map[string]any{"extend-exclude": "^/pkg/"},
			}),
			expectedFiles: []string{"a.py"},
		},
	}
	for index, testCase := range testCases {
		listing, listingError := commands.GetCandidateFiles(commands.FilesRequest{
			Paths:         []string{repositoryRoot},
			Configuration: testCase.configuration,
		})
		if listingError != nil {
			testingInstance.Errorf("case %d (%s): unexpected error: %v", index, testCase.testName, listingError)
			continue
		}
		if listing.Root != repositoryRoot {
			testingInstance.Errorf("case %d (%s): expected root %s, got %s", index, testCase.testName, repositoryRoot, listing.Root)
		}
		if !reflect.DeepEqual(listing.Files, testCase.expectedFiles) {
			testingInstance.Errorf("case %d (%s): expected %v, got %v", index, testCase.testName, testCase.expectedFiles, listing.Files)
		}
	}
}

// TestGetCandidateFilesRejectsUnknownFormatter verifies formatter names are validated.
func TestGetCandidateFilesRejectsUnknownFormatter(testingInstance *testing.T) {
	repositoryRoot := createRepository(testingInstance, sampleRepositoryFiles)
	configuration := config.DefaultApplicationConfiguration()
	configuration.Formatter = "yapf"
	if _, listingError := commands.GetCandidateFiles(commands.FilesRequest{Paths: []string{repositoryRoot}, Configuration: configuration}); listingError == nil {
		testingInstance.Fatalf("expected error for unsupported formatter")
	}
}

type stubDiffRunner struct {
	patches map[string]string
}

func (runner stubDiffRunner) Diff(_ context.Context, _ string, _ string, path string) ([]byte, error) {
	return []byte(runner.patches[path]), nil
}

type upperCaseFormatter struct {
	mutex sync.Mutex
	calls []string
}

func (formatter *upperCaseFormatter) Format(_ context.Context, path string, content []byte) ([]byte, error) {
	formatter.mutex.Lock()
	formatter.calls = append(formatter.calls, filepath.Base(path))
	formatter.mutex.Unlock()
	return []byte(strings.ToUpper(string(content))), nil
}

type failingChecker struct{}

func (failingChecker) Check(context.Context, []byte) error {
	return verify.ErrSyntax
}

// TestGetFileReports verifies reports are ordered, carry edited lines and skip binary files.
func TestGetFileReports(testingInstance *testing.T) {
	files := append([]fixtureFile{{relativePath: "pkg/blob.py", content: "\x00\x01\x02"}}, sampleRepositoryFiles...)
	repositoryRoot := createRepository(testingInstance, files)
	formatRunner := &upperCaseFormatter{}

	reports, reportError := commands.GetFileReports(context.Background(), commands.ChunksRequest{
		Paths:         []string{repositoryRoot},
		Configuration: config.DefaultApplicationConfiguration(),
		DiffRunner:    stubDiffRunner{patches: map[string]string{"a.py": "@@ -1 +1 @@\n-a = 0\n+a = 1\n"}},
		FormatRunner:  formatRunner,
	})
	if reportError != nil {
		testingInstance.Fatalf("GetFileReports failed: %v", reportError)
	}
	if len(reports) != 3 {
		testingInstance.Fatalf("expected 3 reports, got %d", len(reports))
	}
	if reports[0].Path != "a.py" || !reflect.DeepEqual(reports[0].EditedLines, []int{1}) {
		testingInstance.Fatalf("unexpected first report: %+v", reports[0])
	}
	if reports[0].ReplacementText != "A = 1\n" {
		testingInstance.Fatalf("expected reformatted text, got %q", reports[0].ReplacementText)
	}
	if reports[1].Path != "pkg/b.py" || reports[1].EditedLines != nil {
		testingInstance.Fatalf("unexpected second report: %+v", reports[1])
	}
	if reports[2].Path != "pkg/blob.py" || !reports[2].Skipped {
		testingInstance.Fatalf("expected binary file to be skipped: %+v", reports[2])
	}
	if len(formatRunner.calls) != 2 {
		testingInstance.Fatalf("expected the formatter to run for text files only, got %v", formatRunner.calls)
	}
}

// TestGetFileReportsFormatsLegacyEncodings verifies non UTF-8 sources reach the formatter.
func TestGetFileReportsFormatsLegacyEncodings(testingInstance *testing.T) {
	latinSource := "# -*- coding: latin-1 -*-\ns = '\xe9'\n"
	repositoryRoot := createRepository(testingInstance, []fixtureFile{{relativePath: "latin.py", content: latinSource}})
	formatRunner := &upperCaseFormatter{}

	reports, reportError := commands.GetFileReports(context.Background(), commands.ChunksRequest{
		Paths:         []string{repositoryRoot},
		Configuration: config.DefaultApplicationConfiguration(),
		DiffRunner:    stubDiffRunner{},
		FormatRunner:  formatRunner,
	})
	if reportError != nil {
		testingInstance.Fatalf("GetFileReports failed: %v", reportError)
	}
	if len(reports) != 1 || reports[0].Skipped {
		testingInstance.Fatalf("expected one formatted report, got %+v", reports)
	}
	if reports[0].OriginalText != latinSource || len(formatRunner.calls) != 1 {
		testingInstance.Fatalf("expected the formatter to receive the original bytes, got %+v", reports[0])
	}
}

// TestGetFileReportsErrors verifies worker validation and syntax check failures.
func TestGetFileReportsErrors(testingInstance *testing.T) {
	repositoryRoot := createRepository(testingInstance, sampleRepositoryFiles)
	zeroWorkers := 0
	_, reportError := commands.GetFileReports(context.Background(), commands.ChunksRequest{
		Paths:         []string{repositoryRoot},
		Configuration: config.DefaultApplicationConfiguration().Merge(config.ApplicationConfiguration{Workers: &zeroWorkers}),
	})
	if !errors.Is(reportError, commands.ErrInvalidWorkerCount) {
		testingInstance.Fatalf("expected ErrInvalidWorkerCount, got %v", reportError)
	}

	_, reportError = commands.GetFileReports(context.Background(), commands.ChunksRequest{
		Paths:         []string{repositoryRoot},
		Configuration: config.DefaultApplicationConfiguration(),
		DiffRunner:    stubDiffRunner{},
		FormatRunner:  &upperCaseFormatter{},
		Checker:       failingChecker{},
	})
	if !errors.Is(reportError, verify.ErrSyntax) {
		testingInstance.Fatalf("expected ErrSyntax, got %v", reportError)
	}
}

// TestGetRepositoryRoot verifies the root command resolves the marker directory.
func TestGetRepositoryRoot(testingInstance *testing.T) {
	repositoryRoot := createRepository(testingInstance, sampleRepositoryFiles)
	root, rootError := commands.GetRepositoryRoot([]string{filepath.Join(repositoryRoot, "pkg", "b.py"), filepath.Join(repositoryRoot, "a.py")})
	if rootError != nil {
		testingInstance.Fatalf("GetRepositoryRoot failed: %v", rootError)
	}
	if root != repositoryRoot {
		testingInstance.Fatalf("expected %s, got %s", repositoryRoot, root)
	}
}
