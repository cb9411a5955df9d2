package formatter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner produces the reformatted content of a file.
type Runner interface {
	Format(ctx context.Context, path string, content []byte) ([]byte, error)
}

// CommandRunner pipes file content through an external command and reads the
// reformatted content from its standard output.
type CommandRunner struct {
	arguments        []string
	workingDirectory string
}

// NewCommandRunner splits commandLine on whitespace; no shell is involved.
// An empty command line produces a runner that returns content unchanged.
func NewCommandRunner(commandLine string, workingDirectory string) *CommandRunner {
	return &CommandRunner{arguments: strings.Fields(commandLine), workingDirectory: workingDirectory}
}

// Format runs the command with content on standard input.
func (runner *CommandRunner) Format(ctx context.Context, path string, content []byte) ([]byte, error) {
	if len(runner.arguments) == 0 {
		return content, nil
	}
	// #nosec G204
	command := exec.CommandContext(ctx, runner.arguments[0], runner.arguments[1:]...)
	command.Dir = runner.workingDirectory
	command.Stdin = bytes.NewReader(content)
	var standardOutput, standardError bytes.Buffer
	command.Stdout = &standardOutput
	command.Stderr = &standardError
	if runError := command.Run(); runError != nil {
		return nil, fmt.Errorf("formatter %q failed for %s: %w: %s", runner.arguments[0], path, runError, strings.TrimSpace(standardError.String()))
	}
	return standardOutput.Bytes(), nil
}

var _ Runner = (*CommandRunner)(nil)
