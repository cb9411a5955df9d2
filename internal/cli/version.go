package cli

import (
	"os/exec"
	"runtime/debug"
	"strings"

	"github.com/temirov/retouch/internal/gitroot"
)

const (
	unknownVersion     = "unknown"
	develModuleVersion = "(devel)"
	currentDirectory   = "."
)

// tagDescriber runs git describe with arguments inside repositoryRoot.
type tagDescriber func(repositoryRoot string, arguments ...string) (string, error)

var describeQueries = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// applicationVersion prefers the module version stamped at build time and falls back
// to the tags of the repository enclosing the working directory.
func applicationVersion() string {
	buildInfo, available := debug.ReadBuildInfo()
	if available && buildInfo.Main.Version != "" && buildInfo.Main.Version != develModuleVersion {
		return buildInfo.Main.Version
	}
	repositoryRoot, rootError := gitroot.FindCommonRoot([]string{currentDirectory})
	if rootError != nil {
		return unknownVersion
	}
	return describeRepositoryVersion(repositoryRoot, runGitDescribe)
}

func describeRepositoryVersion(repositoryRoot string, describe tagDescriber) string {
	for _, query := range describeQueries {
		description, describeError := describe(repositoryRoot, query...)
		if describeError == nil && description != "" {
			return description
		}
	}
	return unknownVersion
}

// #nosec G204
func runGitDescribe(repositoryRoot string, arguments ...string) (string, error) {
	command := exec.Command("git", arguments...)
	command.Dir = repositoryRoot
	output, runError := command.Output()
	if runError != nil {
		return "", runError
	}
	return strings.TrimSpace(string(output)), nil
}
