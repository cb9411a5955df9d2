package main_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

type candidateListing struct {
	Root  string   `json:"root"`
	Files []string `json:"files"`
}

// #nosec G204
func buildBinary(testSetup *testing.T) string {
	testSetup.Helper()
	if _, lookupError := exec.LookPath("go"); lookupError != nil {
		testSetup.Skip("go toolchain is not available")
	}
	binaryName := "retouch_integration_test_binary"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(testSetup.TempDir(), binaryName)

	buildCommand := exec.Command("go", "build", "-o", binaryPath, ".")
	outputData, buildErr := buildCommand.CombinedOutput()
	if buildErr != nil {
		testSetup.Fatalf("Failed to build binary: %v\nBuild Output:\n%s", buildErr, string(outputData))
	}
	return binaryPath
}

// #nosec G204
func runCommand(testSetup *testing.T, binaryPath string, arguments []string, workingDirectory string) (string, string, error) {
	testSetup.Helper()
	command := exec.Command(binaryPath, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(), "XDG_CONFIG_HOME="+testSetup.TempDir())

	var standardOutputBuffer, standardErrorBuffer bytes.Buffer
	command.Stdout = &standardOutputBuffer
	command.Stderr = &standardErrorBuffer
	runError := command.Run()
	return standardOutputBuffer.String(), standardErrorBuffer.String(), runError
}

func createProject(testSetup *testing.T) string {
	testSetup.Helper()
	projectDirectory, resolveError := filepath.EvalSymlinks(testSetup.TempDir())
	if resolveError != nil {
		testSetup.Fatalf("resolve temp dir: %v", resolveError)
	}
	files := map[string]string{
		"pyproject.toml":       "[tool.black]\nforce-exclude = \"/generated/\"\n",
		"app/main.py":          "print('hi')\n",
		"app/generated/api.py": "x = 1\n",
		"venv/lib/site.py":     "y = 2\n",
		"README.md":            "# sample\n",
	}
	for relativePath, content := range files {
		absolutePath := filepath.Join(projectDirectory, filepath.FromSlash(relativePath))
		if makeError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); makeError != nil {
			testSetup.Fatalf("create directory for %s: %v", relativePath, makeError)
		}
		if writeError := os.WriteFile(absolutePath, []byte(content), 0o644); writeError != nil {
			testSetup.Fatalf("write %s: %v", relativePath, writeError)
		}
	}
	if makeError := os.Mkdir(filepath.Join(projectDirectory, ".git"), 0o755); makeError != nil {
		testSetup.Fatalf("create .git: %v", makeError)
	}
	return projectDirectory
}

// TestFilesCommandIntegration runs the built binary against a sample project.
func TestFilesCommandIntegration(testSetup *testing.T) {
	binaryPath := buildBinary(testSetup)
	projectDirectory := createProject(testSetup)

	standardOutput, standardError, runError := runCommand(testSetup, binaryPath, []string{"files", "--format", "json"}, projectDirectory)
	if runError != nil {
		testSetup.Fatalf("files command failed: %v\n%s", runError, standardError)
	}
	var listing candidateListing
	if decodeError := json.Unmarshal([]byte(standardOutput), &listing); decodeError != nil {
		testSetup.Fatalf("invalid JSON output %q: %v", standardOutput, decodeError)
	}
	if listing.Root != projectDirectory {
		testSetup.Fatalf("expected root %s, got %s", projectDirectory, listing.Root)
	}
	if fmt.Sprint(listing.Files) != "[app/main.py]" {
		testSetup.Fatalf("unexpected candidates %v", listing.Files)
	}
}

// TestRootCommandFailsOutsideRepository verifies the process exits with an error without a .git marker.
func TestRootCommandFailsOutsideRepository(testSetup *testing.T) {
	binaryPath := buildBinary(testSetup)
	workingDirectory := testSetup.TempDir()
	for directory := workingDirectory; ; directory = filepath.Dir(directory) {
		if _, statError := os.Stat(filepath.Join(directory, ".git")); statError == nil {
			testSetup.Skip("temporary directory is inside a repository")
		}
		if filepath.Dir(directory) == directory {
			break
		}
	}
	_, standardError, runError := runCommand(testSetup, binaryPath, []string{"root", "."}, workingDirectory)
	if runError == nil {
		testSetup.Fatalf("expected root command to fail outside a repository")
	}
	if !strings.Contains(standardError, "no common parent git root") {
		testSetup.Fatalf("expected common root error, got %q", standardError)
	}
}
