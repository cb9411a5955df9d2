package gitdiff_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/retouch/internal/gitdiff"
	"github.com/temirov/retouch/internal/linebuffer"
)

const multiHunkPatch = `diff --git a/module.py b/module.py
index 3b18e51..a9b2c3d 100644
--- a/module.py
+++ b/module.py
@@ -2 +2 @@ def first():
-    return 1
+    return 2
@@ -5,0 +6,2 @@ def second():
+--- not a header
+@@ not a hunk either
@@ -9,2 +11,0 @@
-removed one
-removed two
@@ -20 +19,3 @@
-tail
+tail one
+tail two
+tail three
\ No newline at end of file
`

// TestParseEditedLineNumbers verifies hunk ranges are collected and hunk bodies skipped.
func TestParseEditedLineNumbers(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patch    string
		expected []int
	}{
		{testName: "multiple hunks", patch: multiHunkPatch, expected: []int{2, 6, 7, 19, 20, 21}},
		{testName: "empty patch", patch: "", expected: nil},
		{testName: "headers only", patch: "diff --git a/x b/x\nindex 1..2\n", expected: nil},
	}
	for index, testCase := range testCases {
		actual, parseError := gitdiff.ParseEditedLineNumbers([]byte(testCase.patch))
		if parseError != nil {
			testingInstance.Errorf("case %d (%s): unexpected error: %v", index, testCase.testName, parseError)
			continue
		}
		if !reflect.DeepEqual(actual, testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected %v, got %v", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestParseEditedLineNumbersErrors verifies malformed headers and invalid text are reported.
func TestParseEditedLineNumbersErrors(testingInstance *testing.T) {
	if _, parseError := gitdiff.ParseEditedLineNumbers([]byte("@@ -1 +x @@\n")); !errors.Is(parseError, gitdiff.ErrMalformedHunk) {
		testingInstance.Errorf("expected ErrMalformedHunk, got %v", parseError)
	}
	if _, parseError := gitdiff.ParseEditedLineNumbers([]byte("@@ -1 +1,-2 @@\n")); !errors.Is(parseError, gitdiff.ErrMalformedHunk) {
		testingInstance.Errorf("expected ErrMalformedHunk for negative count, got %v", parseError)
	}
	var decodeError *linebuffer.DecodeError
	if _, parseError := gitdiff.ParseEditedLineNumbers([]byte("@@ -1 +1 @@\n+\xff\n")); !errors.As(parseError, &decodeError) {
		testingInstance.Errorf("expected DecodeError, got %v", parseError)
	}
}

type stubRunner struct {
	patch []byte
	err   error
}

func (runner stubRunner) Diff(context.Context, string, string, string) ([]byte, error) {
	return runner.patch, runner.err
}

// TestEditedLineNumbers verifies the runner output is parsed and runner errors propagate.
func TestEditedLineNumbers(testingInstance *testing.T) {
	lineNumbers, diffError := gitdiff.EditedLineNumbers(context.Background(), stubRunner{patch: []byte("@@ -1 +1,2 @@\n+a\n+b\n")}, "", "HEAD", "a.py")
	if diffError != nil || !reflect.DeepEqual(lineNumbers, []int{1, 2}) {
		testingInstance.Fatalf("unexpected result %v (%v)", lineNumbers, diffError)
	}
	runnerError := errors.New("git failed")
	if _, diffError = gitdiff.EditedLineNumbers(context.Background(), stubRunner{err: runnerError}, "", "HEAD", "a.py"); !errors.Is(diffError, runnerError) {
		testingInstance.Fatalf("expected runner error, got %v", diffError)
	}
}

// TestGitRunnerDiff verifies edited lines are read from a real repository.
func TestGitRunnerDiff(testingInstance *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testingInstance.Skip("git is not available")
	}
	repositoryDirectory := testingInstance.TempDir()
	runGit := func(arguments ...string) {
		testingInstance.Helper()
		command := exec.Command("git", append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com", "-c", "commit.gpgsign=false"}, arguments...)...)
		command.Dir = repositoryDirectory
		if output, runError := command.CombinedOutput(); runError != nil {
			testingInstance.Fatalf("git %v failed: %v: %s", arguments, runError, output)
		}
	}
	modulePath := filepath.Join(repositoryDirectory, "module.py")
	writeModule := func(content string) {
		testingInstance.Helper()
		if writeError := os.WriteFile(modulePath, []byte(content), 0o600); writeError != nil {
			testingInstance.Fatalf("failed to write module: %v", writeError)
		}
	}

	runGit("init", "-q")
	writeModule("a = 1\nb = 2\nc = 3\n")
	runGit("add", "module.py")
	runGit("commit", "-q", "-m", "initial")
	writeModule("a = 1\nb = 20\nc = 3\nd = 4\n")

	lineNumbers, diffError := gitdiff.EditedLineNumbers(context.Background(), gitdiff.GitRunner{}, repositoryDirectory, "HEAD", "module.py")
	if diffError != nil {
		testingInstance.Fatalf("EditedLineNumbers failed: %v", diffError)
	}
	if !reflect.DeepEqual(lineNumbers, []int{2, 4}) {
		testingInstance.Fatalf("expected [2 4], got %v", lineNumbers)
	}
}
