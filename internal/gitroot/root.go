// Package gitroot locates the repository root shared by a set of paths.
package gitroot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/retouch/internal/utils"
)

// ErrNoCommonRoot indicates that no common ancestor of the inputs is a repository root.
var ErrNoCommonRoot = errors.New("paths have no common parent git root")

const errorAbsolutePathFormat = "failed to get absolute path for %s: %w"

// IsRepositoryRoot reports whether directory contains a .git directory.
func IsRepositoryRoot(directory string) bool {
	fileInformation, statError := os.Stat(filepath.Join(directory, utils.GitDirectoryName))
	return statError == nil && fileInformation.IsDir()
}

// ResolvePath returns the absolute form of path with symbolic links evaluated.
// Trailing components that do not exist yet are appended unchanged to the
// resolved form of their deepest existing ancestor.
func ResolvePath(path string) (string, error) {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, path, absoluteError)
	}
	existingPath := absolutePath
	var missingComponents []string
	for {
		resolvedPath, evaluationError := filepath.EvalSymlinks(existingPath)
		if evaluationError == nil {
			return filepath.Join(append([]string{resolvedPath}, missingComponents...)...), nil
		}
		if !errors.Is(evaluationError, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to resolve %s: %w", path, evaluationError)
		}
		parentPath := filepath.Dir(existingPath)
		if parentPath == existingPath {
			return absolutePath, nil
		}
		missingComponents = append([]string{filepath.Base(existingPath)}, missingComponents...)
		existingPath = parentPath
	}
}

// FindCommonRoot returns the deepest directory that contains every path (or is
// the path itself) and is a repository root.
func FindCommonRoot(paths []string) (string, error) {
	resolvedPaths := make([]string, 0, len(paths))
	for _, path := range paths {
		resolvedPath, resolveError := ResolvePath(path)
		if resolveError != nil {
			return "", resolveError
		}
		resolvedPaths = append(resolvedPaths, resolvedPath)
	}
	resolvedPaths = utils.DeduplicateStrings(resolvedPaths)
	if len(resolvedPaths) == 0 {
		return "", fmt.Errorf("%w: no paths given", ErrNoCommonRoot)
	}

	chains := make([][]string, 0, len(resolvedPaths))
	shortestChain := -1
	for _, resolvedPath := range resolvedPaths {
		chain := ancestorChain(resolvedPath)
		chains = append(chains, chain)
		if shortestChain < 0 || len(chain) < shortestChain {
			shortestChain = len(chain)
		}
	}

	commonRoot := ""
depthLoop:
	for depth := 0; depth < shortestChain; depth++ {
		directory := chains[0][depth]
		for _, chain := range chains[1:] {
			if chain[depth] != directory {
				break depthLoop
			}
		}
		if IsRepositoryRoot(directory) {
			commonRoot = directory
		}
	}
	if commonRoot == "" {
		return "", fmt.Errorf("%w: %v", ErrNoCommonRoot, resolvedPaths)
	}
	return commonRoot, nil
}

// ancestorChain lists the directories from the volume root down to path itself.
func ancestorChain(path string) []string {
	var reversedChain []string
	currentPath := filepath.Clean(path)
	for {
		reversedChain = append(reversedChain, currentPath)
		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			break
		}
		currentPath = parentPath
	}
	chain := make([]string, len(reversedChain))
	for index, ancestor := range reversedChain {
		chain[len(reversedChain)-1-index] = ancestor
	}
	return chain
}
