// Package patterns compiles the include and exclude regular expressions used to
// select candidate files. Expressions follow Python's re syntax, so they are
// compiled with regexp2 rather than the RE2-only standard library engine.
package patterns

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

const (
	// DefaultIncludes matches Python sources, stubs and notebooks.
	DefaultIncludes = `(\.pyi?|\.ipynb)$`
	// DefaultExcludes matches tool caches, virtual environments and build output.
	DefaultExcludes = `/(\.direnv|\.eggs|\.git|\.hg|\.ipynb_checkpoints|\.mypy_cache|\.nox|\.pytest_cache|\.ruff_cache|\.tox|\.svn|\.venv|\.vscode|__pypackages__|_build|buck-out|build|dist|venv)/`

	matchTimeout = 5 * time.Second
)

var (
	// DefaultInclude is the compiled form of DefaultIncludes.
	DefaultInclude = MustCompile(DefaultIncludes)
	// DefaultExclude is the compiled form of DefaultExcludes.
	DefaultExclude = MustCompile(DefaultExcludes)
)

// Compile compiles a pattern, switching to verbose mode when it spans several lines.
func Compile(pattern string) (*regexp2.Regexp, error) {
	options := regexp2.None
	if strings.Contains(pattern, "\n") {
		options |= regexp2.IgnorePatternWhitespace
	}
	compiled, compileError := regexp2.Compile(pattern, options)
	if compileError != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %w", pattern, compileError)
	}
	compiled.MatchTimeout = matchTimeout
	return compiled, nil
}

// MustCompile is like Compile but panics on invalid patterns.
func MustCompile(pattern string) *regexp2.Regexp {
	compiled, compileError := Compile(pattern)
	if compileError != nil {
		panic(compileError)
	}
	return compiled
}

// CompileOptional compiles pattern, returning nil for an empty pattern.
func CompileOptional(pattern string) (*regexp2.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, nil
	}
	return Compile(pattern)
}

// Search reports whether pattern matches anywhere in normalizedPath.
// A nil pattern never matches; a match timeout counts as no match.
func Search(pattern *regexp2.Regexp, normalizedPath string) bool {
	if pattern == nil {
		return false
	}
	isMatched, matchError := pattern.MatchString(normalizedPath)
	return matchError == nil && isMatched
}
