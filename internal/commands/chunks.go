package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/retouch/internal/config"
	"github.com/temirov/retouch/internal/formatter"
	"github.com/temirov/retouch/internal/gitdiff"
	"github.com/temirov/retouch/internal/types"
	"github.com/temirov/retouch/internal/utils"
	"github.com/temirov/retouch/internal/verify"
)

const (
	skipReasonBinary      = "binary content"
	warningBinaryFormat   = "Warning: skipping %s: binary content"
	errorReadFileFormat   = "read %s: %w"
	errorEditedLines      = "collect edited lines of %s: %w"
	errorSyntaxFormat     = "reformatted %s: %w"
	errorWorkerCountValue = "workers must be at least 1, got %d"
)

// ErrInvalidWorkerCount is returned when the worker limit is not positive.
var ErrInvalidWorkerCount = errors.New("invalid worker count")

// ChunksRequest describes a chunk diagnostics run.
type ChunksRequest struct {
	Paths         []string
	Configuration config.ApplicationConfiguration
	DiffRunner    gitdiff.Runner
	FormatRunner  formatter.Runner
	Checker       verify.Checker
	Logger        *zap.Logger
}

// GetFileReports reformats every candidate file concurrently and returns one report per
// file in path order. Reports hold the original and reformatted text plus the lines edited
// since the configured revision.
func GetFileReports(ctx context.Context, request ChunksRequest) ([]types.FileReport, error) {
	workerCount := config.IntValue(request.Configuration.Workers, config.DefaultWorkers)
	if workerCount < 1 {
		return nil, fmt.Errorf("%w: "+errorWorkerCountValue, ErrInvalidWorkerCount, workerCount)
	}
	listing, listingError := GetCandidateFiles(FilesRequest{
		Paths:         request.Paths,
		Configuration: request.Configuration,
		Logger:        request.Logger,
	})
	if listingError != nil {
		return nil, listingError
	}

	diffRunner := request.DiffRunner
	if diffRunner == nil {
		diffRunner = gitdiff.GitRunner{}
	}
	formatRunner := request.FormatRunner
	if formatRunner == nil {
		formatRunner = formatter.NewCommandRunner(request.Configuration.FormatterCommand, listing.Root)
	}
	logger := request.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reports := make([]types.FileReport, len(listing.Files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workerCount)
	for index, relativePath := range listing.Files {
		group.Go(func() error {
			report, reportError := buildFileReport(groupCtx, listing.Root, relativePath, request.Configuration.Revision, diffRunner, formatRunner, request.Checker)
			if reportError != nil {
				return reportError
			}
			if report.Skipped {
				logger.Warn(fmt.Sprintf(warningBinaryFormat, relativePath))
			}
			reports[index] = report
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return reports, nil
}

func buildFileReport(
	ctx context.Context,
	root string,
	relativePath string,
	revision string,
	diffRunner gitdiff.Runner,
	formatRunner formatter.Runner,
	checker verify.Checker,
) (types.FileReport, error) {
	report := types.FileReport{Path: relativePath}
	absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
	content, readError := os.ReadFile(absolutePath)
	if readError != nil {
		return report, fmt.Errorf(errorReadFileFormat, relativePath, readError)
	}
	if utils.IsBinary(content) {
		report.Skipped = true
		report.SkipReason = skipReasonBinary
		return report, nil
	}

	editedLines, diffError := gitdiff.EditedLineNumbers(ctx, diffRunner, root, revision, relativePath)
	if diffError != nil {
		return report, fmt.Errorf(errorEditedLines, relativePath, diffError)
	}
	formatted, formatError := formatRunner.Format(ctx, absolutePath, content)
	if formatError != nil {
		return report, formatError
	}
	if checker != nil {
		if checkError := checker.Check(ctx, formatted); checkError != nil {
			return report, fmt.Errorf(errorSyntaxFormat, relativePath, checkError)
		}
	}

	report.OriginalText = string(content)
	report.ReplacementText = string(formatted)
	report.EditedLines = editedLines
	return report, nil
}
