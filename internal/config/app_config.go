package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	configurationType   = "toml"
	applicationTableKey = "tool.retouch"
	blackTableKey       = "tool.black"

	// DefaultRevision is the revision edits are measured against.
	DefaultRevision = "HEAD"
	// DefaultFormatter names the formatter whose file selection rules apply.
	DefaultFormatter = "black"
	// DefaultFormatterCommand reformats standard input to standard output.
	DefaultFormatterCommand = "black -q -"
	// DefaultWorkers bounds concurrent per-file work.
	DefaultWorkers = 4
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	SearchStart      []string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the [tool.retouch] settings plus the formatter's own table.
type ApplicationConfiguration struct {
	Revision          string         `mapstructure:"revision"`
	Formatter         string         `mapstructure:"formatter"`
	FormatterCommand  string         `mapstructure:"formatter_command"`
	UseGitignore      *bool          `mapstructure:"use_gitignore"`
	CheckSyntax       *bool          `mapstructure:"check_syntax"`
	Workers           *int           `mapstructure:"workers"`
	Copy              *bool          `mapstructure:"copy"`
	FormatterSettings map[string]any `mapstructure:"-"`
	SourcePath        string         `mapstructure:"-"`
}

// DefaultApplicationConfiguration returns the built-in defaults.
func DefaultApplicationConfiguration() ApplicationConfiguration {
	useGitignore := true
	checkSyntax := false
	workers := DefaultWorkers
	copyOutput := false
	return ApplicationConfiguration{
		Revision:         DefaultRevision,
		Formatter:        DefaultFormatter,
		FormatterCommand: DefaultFormatterCommand,
		UseGitignore:     &useGitignore,
		CheckSyntax:      &checkSyntax,
		Workers:          &workers,
		Copy:             &copyOutput,
	}
}

// LoadApplicationConfiguration locates the pyproject.toml for the search paths, or uses the
// explicit file, and overlays its settings onto the defaults.
func LoadApplicationConfiguration(options LoadOptions, logger *zap.Logger) (ApplicationConfiguration, error) {
	configurationPath := options.ExplicitFilePath
	if configurationPath == "" {
		foundPath, findError := FindPyprojectToml(options.SearchStart, logger)
		if findError != nil {
			return ApplicationConfiguration{}, findError
		}
		configurationPath = foundPath
	} else if !filepath.IsAbs(configurationPath) {
		absolutePath, absError := filepath.Abs(configurationPath)
		if absError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("resolve configuration path %s: %w", configurationPath, absError)
		}
		configurationPath = absolutePath
	}

	fileConfiguration, loadError := loadConfigurationFromPath(configurationPath)
	if loadError != nil {
		return ApplicationConfiguration{}, loadError
	}
	merged := DefaultApplicationConfiguration().Merge(fileConfiguration)
	merged.SourcePath = configurationPath
	return merged, nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType(configurationType)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if applicationTable := reader.Sub(applicationTableKey); applicationTable != nil {
		if decodeErr := applicationTable.Unmarshal(&config); decodeErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
		}
	}
	if reader.IsSet(blackTableKey) {
		config.FormatterSettings = reader.GetStringMap(blackTableKey)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Revision != "" {
		result.Revision = override.Revision
	}
	if override.Formatter != "" {
		result.Formatter = override.Formatter
	}
	if override.FormatterCommand != "" {
		result.FormatterCommand = override.FormatterCommand
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.CheckSyntax != nil {
		result.CheckSyntax = cloneBool(override.CheckSyntax)
	}
	if override.Workers != nil {
		result.Workers = cloneInt(override.Workers)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	if override.FormatterSettings != nil {
		result.FormatterSettings = override.FormatterSettings
	}
	if override.SourcePath != "" {
		result.SourcePath = override.SourcePath
	}
	return result
}

// BoolValue dereferences an optional flag, treating nil as false.
func BoolValue(value *bool) bool {
	return value != nil && *value
}

// IntValue dereferences an optional count, falling back when nil.
func IntValue(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
