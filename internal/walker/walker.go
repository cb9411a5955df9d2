// Package walker expands directories into the files selected by include and exclude patterns.
package walker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/temirov/retouch/internal/config"
	"github.com/temirov/retouch/internal/patterns"
	"github.com/temirov/retouch/internal/utils"
)

const (
	normalizedSeparator = "/"

	warningStatFormat           = "%s: ignored: cannot be resolved: %v"
	warningOutsideRootFormat    = "%s: ignored: symbolic link points outside %s"
	warningAlreadyVisitedFormat = "%s: ignored: directory already visited through %s"
	warningIgnoreRulesFormat    = "%s: using no .gitignore rules: %v"
)

// ErrOutsideRoot is returned when a path handed to the walker is not below the root.
var ErrOutsideRoot = errors.New("path is not inside the root directory")

// Options configures a walk. Root must be an absolute, symlink-free path.
//
// IgnoreRules maps a directory to the .gitignore patterns declared in it. A nil map
// disables .gitignore handling; a non-nil map is extended with the .gitignore file
// of every directory the walk descends into.
type Options struct {
	Root          string
	Include       *regexp2.Regexp
	Exclude       *regexp2.Regexp
	ExtendExclude *regexp2.Regexp
	ForceExclude  *regexp2.Regexp
	IgnoreRules   map[string][]string
	Warn          func(message string)
}

type walkContext struct {
	options            Options
	visit              func(path string) error
	visitedDirectories map[string]string
}

// Walk checks every path against the ignore rules and patterns, descends into
// directories and calls visit for each selected regular file.
func Walk(paths []string, options Options, visit func(path string) error) error {
	if visit == nil {
		return fmt.Errorf("walker visit function is nil")
	}
	if options.Root == "" {
		return fmt.Errorf("walker root path is empty")
	}
	ctx := walkContext{options: options, visit: visit, visitedDirectories: make(map[string]string)}
	if ctx.options.Warn == nil {
		ctx.options.Warn = func(string) {}
	}
	return ctx.walkPaths(paths, options.IgnoreRules)
}

func (ctx *walkContext) walkPaths(paths []string, ignoreRules map[string][]string) error {
	for _, childPath := range paths {
		relativePath, insideRoot := relativeToDirectory(childPath, ctx.options.Root)
		if !insideRoot {
			return fmt.Errorf("%w: %s is not inside %s", ErrOutsideRoot, childPath, ctx.options.Root)
		}

		childInfo, statError := os.Stat(childPath)
		if statError != nil {
			ctx.options.Warn(fmt.Sprintf(warningStatFormat, childPath, statError))
			continue
		}
		resolvedPath, resolveError := filepath.EvalSymlinks(childPath)
		if resolveError != nil {
			ctx.options.Warn(fmt.Sprintf(warningStatFormat, childPath, resolveError))
			continue
		}
		if _, resolvedInside := relativeToDirectory(resolvedPath, ctx.options.Root); !resolvedInside {
			ctx.options.Warn(fmt.Sprintf(warningOutsideRootFormat, childPath, ctx.options.Root))
			continue
		}

		isDirectory := childInfo.IsDir()
		if isIgnoredByRules(childPath, isDirectory, ignoreRules) {
			continue
		}

		if relativePath == "" {
			relativePath = "."
		}
		normalizedPath := normalizedSeparator + relativePath
		if isDirectory {
			normalizedPath += normalizedSeparator
		}
		if patterns.Search(ctx.options.Exclude, normalizedPath) ||
			patterns.Search(ctx.options.ExtendExclude, normalizedPath) ||
			patterns.Search(ctx.options.ForceExclude, normalizedPath) {
			continue
		}

		if isDirectory {
			if firstVisit, visited := ctx.visitedDirectories[resolvedPath]; visited {
				// Overlapping inputs are expected; warn only when a link is involved.
				if resolvedPath != childPath || firstVisit != resolvedPath {
					ctx.options.Warn(fmt.Sprintf(warningAlreadyVisitedFormat, childPath, firstVisit))
				}
				continue
			}
			ctx.visitedDirectories[resolvedPath] = childPath
			if err := ctx.walkDirectory(childPath, ignoreRules); err != nil {
				return err
			}
			continue
		}

		if !childInfo.Mode().IsRegular() {
			continue
		}
		if ctx.options.Include != nil && !patterns.Search(ctx.options.Include, normalizedPath) {
			continue
		}
		if err := ctx.visit(childPath); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *walkContext) walkDirectory(directoryPath string, ignoreRules map[string][]string) error {
	childRules := ignoreRules
	if ignoreRules != nil {
		directoryPatterns, loadError := config.LoadDirectoryIgnoreRules(directoryPath)
		if loadError != nil {
			ctx.options.Warn(fmt.Sprintf(warningIgnoreRulesFormat, directoryPath, loadError))
		}
		childRules = make(map[string][]string, len(ignoreRules)+1)
		for ruleDirectory, rulePatterns := range ignoreRules {
			childRules[ruleDirectory] = rulePatterns
		}
		childRules[directoryPath] = directoryPatterns
	}

	entries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return fmt.Errorf("reading directory %s: %w", directoryPath, readError)
	}
	childPaths := make([]string, 0, len(entries))
	for _, entry := range entries {
		childPaths = append(childPaths, filepath.Join(directoryPath, entry.Name()))
	}
	return ctx.walkPaths(childPaths, childRules)
}

// isIgnoredByRules reports whether any .gitignore in an ancestor directory matches path.
func isIgnoredByRules(path string, isDirectory bool, ignoreRules map[string][]string) bool {
	for ruleDirectory, rulePatterns := range ignoreRules {
		if len(rulePatterns) == 0 {
			continue
		}
		relativePath, insideDirectory := relativeToDirectory(path, ruleDirectory)
		if !insideDirectory || relativePath == "" {
			continue
		}
		if isDirectory {
			relativePath += normalizedSeparator
		}
		if utils.ShouldIgnoreByPath(relativePath, rulePatterns) {
			return true
		}
	}
	return false
}

// relativeToDirectory returns path relative to directory in forward-slash form and
// whether path lies inside directory. The directory itself yields an empty path.
func relativeToDirectory(path string, directory string) (string, bool) {
	relativePath, relativeError := filepath.Rel(directory, path)
	if relativeError != nil {
		return "", false
	}
	if relativePath == "." {
		return "", true
	}
	slashPath := filepath.ToSlash(relativePath)
	if slashPath == ".." || strings.HasPrefix(slashPath, "../") {
		return "", false
	}
	return slashPath, true
}
