// Package candidates resolves the files that are eligible for reformatting.
package candidates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/retouch/internal/formatter"
	"github.com/temirov/retouch/internal/gitroot"
	"github.com/temirov/retouch/internal/patterns"
	"github.com/temirov/retouch/internal/walker"
)

// ErrOutsideRoot is returned when a candidate does not lie below the root.
var ErrOutsideRoot = walker.ErrOutsideRoot

const (
	errorStatFormat        = "stat failed for '%s': %w"
	errorOutsideRootFormat = "%w: %s is not inside %s"
)

// Options tunes directory expansion.
type Options struct {
	// IgnoreRules seeds .gitignore handling; nil disables it. See walker.Options.
	IgnoreRules map[string][]string
	Warn        func(message string)
}

// DefaultOptions enables .gitignore handling with no initial rules.
func DefaultOptions() Options {
	return Options{IgnoreRules: map[string][]string{}}
}

// Set holds root-relative candidate paths in forward-slash form.
type Set map[string]struct{}

// Contains reports whether relativePath is in the set.
func (set Set) Contains(relativePath string) bool {
	_, found := set[relativePath]
	return found
}

// Sorted returns the paths in lexical order.
func (set Set) Sorted() []string {
	sortedPaths := make([]string, 0, len(set))
	for relativePath := range set {
		sortedPaths = append(sortedPaths, relativePath)
	}
	sort.Strings(sortedPaths)
	return sortedPaths
}

// Resolve returns the files below root selected from paths. Files named
// explicitly are always kept; directories are expanded with the include and
// exclude patterns of configuration. Filesystem errors are returned unchanged.
func Resolve(paths []string, root string, configuration formatter.Configuration, options Options) (Set, error) {
	resolvedRoot, rootError := gitroot.ResolvePath(root)
	if rootError != nil {
		return nil, rootError
	}

	var directories []string
	var files []string
	seenInputs := make(map[string]struct{}, len(paths))
	for _, inputPath := range paths {
		resolvedPath, resolveError := gitroot.ResolvePath(inputPath)
		if resolveError != nil {
			return nil, resolveError
		}
		if _, seen := seenInputs[resolvedPath]; seen {
			continue
		}
		seenInputs[resolvedPath] = struct{}{}
		fileInformation, statError := os.Stat(resolvedPath)
		if statError != nil {
			return nil, fmt.Errorf(errorStatFormat, inputPath, statError)
		}
		if fileInformation.IsDir() {
			directories = append(directories, resolvedPath)
		} else {
			files = append(files, resolvedPath)
		}
	}

	walkOptions := walker.Options{
		Root:          resolvedRoot,
		Include:       configuration.IncludePattern(),
		Exclude:       configuration.ExcludePattern(patterns.DefaultExclude),
		ExtendExclude: configuration.ExtendExcludePattern(),
		ForceExclude:  configuration.ForceExcludePattern(),
		IgnoreRules:   options.IgnoreRules,
		Warn:          options.Warn,
	}
	walkError := walker.Walk(directories, walkOptions, func(path string) error {
		files = append(files, path)
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	result := make(Set, len(files))
	for _, filePath := range files {
		resolvedPath, resolveError := gitroot.ResolvePath(filePath)
		if resolveError != nil {
			return nil, resolveError
		}
		relativePath, relativeError := filepath.Rel(resolvedRoot, resolvedPath)
		slashPath := filepath.ToSlash(relativePath)
		if relativeError != nil || slashPath == ".." || strings.HasPrefix(slashPath, "../") {
			return nil, fmt.Errorf(errorOutsideRootFormat, ErrOutsideRoot, resolvedPath, resolvedRoot)
		}
		result[slashPath] = struct{}{}
	}
	return result, nil
}
