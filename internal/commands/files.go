// Package commands implements the operations behind the CLI subcommands.
package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/retouch/internal/candidates"
	"github.com/temirov/retouch/internal/config"
	"github.com/temirov/retouch/internal/formatter"
	"github.com/temirov/retouch/internal/gitroot"
	"github.com/temirov/retouch/internal/types"
)

// FilesRequest describes a candidate file lookup.
type FilesRequest struct {
	Paths         []string
	Configuration config.ApplicationConfiguration
	Logger        *zap.Logger
}

// GetRepositoryRoot returns the deepest repository root shared by paths.
func GetRepositoryRoot(paths []string) (string, error) {
	return gitroot.FindCommonRoot(paths)
}

// GetCandidateFiles resolves the repository root for the request paths and lists
// the files the configured formatter would process, relative to that root.
func GetCandidateFiles(request FilesRequest) (types.CandidateListing, error) {
	root, rootError := gitroot.FindCommonRoot(request.Paths)
	if rootError != nil {
		return types.CandidateListing{}, rootError
	}
	formatterConfiguration, formatterError := formatter.New(request.Configuration.Formatter, request.Configuration.FormatterSettings)
	if formatterError != nil {
		return types.CandidateListing{}, fmt.Errorf("load formatter settings from %s: %w", request.Configuration.SourcePath, formatterError)
	}
	options := candidates.DefaultOptions()
	if !config.BoolValue(request.Configuration.UseGitignore) {
		options.IgnoreRules = nil
	}
	if request.Logger != nil {
		logger := request.Logger
		options.Warn = func(message string) { logger.Warn(message) }
	}
	candidateSet, resolveError := candidates.Resolve(request.Paths, root, formatterConfiguration, options)
	if resolveError != nil {
		return types.CandidateListing{}, resolveError
	}
	return types.CandidateListing{Root: root, Files: candidateSet.Sorted()}, nil
}
