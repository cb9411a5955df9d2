// Package formatter describes the reformatter whose exclusion settings decide
// which files are candidates, and runs it as an external command.
package formatter

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/temirov/retouch/internal/patterns"
)

const (
	// NameBlack selects the Black-compatible configuration.
	NameBlack = "black"
	// NameNone selects a formatter without exclusion settings.
	NameNone = "none"

	settingExclude       = "exclude"
	settingExtendExclude = "extend_exclude"
	settingForceExclude  = "force_exclude"
)

// Configuration exposes the patterns a formatter uses to select files.
// Every method may return nil, meaning the pattern is absent.
type Configuration interface {
	IncludePattern() *regexp2.Regexp
	ExcludePattern(defaultPattern *regexp2.Regexp) *regexp2.Regexp
	ExtendExcludePattern() *regexp2.Regexp
	ForceExcludePattern() *regexp2.Regexp
}

// New returns the configuration for the named formatter built from its settings table.
func New(name string, settings map[string]any) (Configuration, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameBlack, "":
		return NewBlackConfiguration(settings)
	case NameNone:
		return NoneConfiguration{}, nil
	default:
		return nil, fmt.Errorf("unsupported formatter %q", name)
	}
}

// BlackConfiguration reads exclusion options from a [tool.black] table.
type BlackConfiguration struct {
	exclude       *regexp2.Regexp
	extendExclude *regexp2.Regexp
	forceExclude  *regexp2.Regexp
}

// NewBlackConfiguration compiles the exclude, extend-exclude and force-exclude settings.
// Keys are accepted with dashes or underscores.
func NewBlackConfiguration(settings map[string]any) (*BlackConfiguration, error) {
	normalizedSettings := normalizeSettingKeys(settings)
	configuration := &BlackConfiguration{}
	compileTargets := []struct {
		key    string
		target **regexp2.Regexp
	}{
		{key: settingExclude, target: &configuration.exclude},
		{key: settingExtendExclude, target: &configuration.extendExclude},
		{key: settingForceExclude, target: &configuration.forceExclude},
	}
	for _, compileTarget := range compileTargets {
		rawValue, present := normalizedSettings[compileTarget.key]
		if !present || rawValue == nil {
			continue
		}
		patternText, isString := rawValue.(string)
		if !isString {
			return nil, fmt.Errorf("black setting %s must be a string, got %T", compileTarget.key, rawValue)
		}
		compiled, compileError := patterns.CompileOptional(patternText)
		if compileError != nil {
			return nil, fmt.Errorf("black setting %s: %w", compileTarget.key, compileError)
		}
		*compileTarget.target = compiled
	}
	return configuration, nil
}

// IncludePattern returns the default include pattern; Black's own include option is not consulted.
func (configuration *BlackConfiguration) IncludePattern() *regexp2.Regexp {
	return patterns.DefaultInclude
}

// ExcludePattern returns the configured exclude pattern, or defaultPattern when unset.
func (configuration *BlackConfiguration) ExcludePattern(defaultPattern *regexp2.Regexp) *regexp2.Regexp {
	if configuration.exclude == nil {
		return defaultPattern
	}
	return configuration.exclude
}

func (configuration *BlackConfiguration) ExtendExcludePattern() *regexp2.Regexp {
	return configuration.extendExclude
}

func (configuration *BlackConfiguration) ForceExcludePattern() *regexp2.Regexp {
	return configuration.forceExclude
}

// NoneConfiguration applies only the default include and exclude patterns.
type NoneConfiguration struct{}

func (NoneConfiguration) IncludePattern() *regexp2.Regexp { return patterns.DefaultInclude }

func (NoneConfiguration) ExcludePattern(defaultPattern *regexp2.Regexp) *regexp2.Regexp {
	return defaultPattern
}

func (NoneConfiguration) ExtendExcludePattern() *regexp2.Regexp { return nil }

func (NoneConfiguration) ForceExcludePattern() *regexp2.Regexp { return nil }

func normalizeSettingKeys(settings map[string]any) map[string]any {
	normalized := make(map[string]any, len(settings))
	for key, value := range settings {
		normalized[strings.ReplaceAll(strings.ToLower(key), "-", "_")] = value
	}
	return normalized
}

var (
	_ Configuration = (*BlackConfiguration)(nil)
	_ Configuration = NoneConfiguration{}
)
