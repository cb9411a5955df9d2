package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/retouch/internal/utils"
)

const (
	// ApplicationName names the user-level configuration directory.
	ApplicationName = "retouch"

	windowsOperatingSystem       = "windows"
	windowsConfigDirectoryName   = ".retouch"
	xdgConfigHomeEnvironmentName = "XDG_CONFIG_HOME"
	defaultConfigDirectoryName   = ".config"
	userConfigurationWarning     = "Ignoring user configuration directory due to %v"
)

// FindProjectRoot returns the directory that holds the project configuration for searchStart.
// The deepest directory shared by all inputs is walked upwards until a directory containing
// .git, a .hg directory or a pyproject.toml file is found. The volume root is returned otherwise.
func FindProjectRoot(searchStart []string) (string, error) {
	commonBase, baseError := commonSearchBase(searchStart)
	if baseError != nil {
		return "", baseError
	}
	directory := commonBase
	for {
		if isProjectRoot(directory) {
			return directory, nil
		}
		parent := filepath.Dir(directory)
		if parent == directory {
			return directory, nil
		}
		directory = parent
	}
}

func isProjectRoot(directory string) bool {
	if _, statError := os.Stat(filepath.Join(directory, utils.GitDirectoryName)); statError == nil {
		return true
	}
	if info, statError := os.Stat(filepath.Join(directory, utils.MercurialDirectoryName)); statError == nil && info.IsDir() {
		return true
	}
	info, statError := os.Stat(filepath.Join(directory, utils.PyprojectFileName))
	return statError == nil && info.Mode().IsRegular()
}

// commonSearchBase returns the deepest directory shared by the inputs. A directory input
// counts itself, any other input only its parents. No inputs means the working directory.
func commonSearchBase(searchStart []string) (string, error) {
	if len(searchStart) == 0 {
		searchStart = []string{"."}
	}
	var commonBase string
	for index, path := range searchStart {
		absolutePath, absError := filepath.Abs(path)
		if absError != nil {
			return "", fmt.Errorf("resolve search path %s: %w", path, absError)
		}
		if resolvedPath, evalError := filepath.EvalSymlinks(absolutePath); evalError == nil {
			absolutePath = resolvedPath
		}
		candidate := absolutePath
		if info, statError := os.Stat(absolutePath); statError != nil || !info.IsDir() {
			candidate = filepath.Dir(absolutePath)
		}
		if index == 0 {
			commonBase = candidate
			continue
		}
		commonBase = sharedDirectory(commonBase, candidate)
	}
	return commonBase, nil
}

func sharedDirectory(first, second string) string {
	for !isWithinDirectory(second, first) {
		parent := filepath.Dir(first)
		if parent == first {
			return first
		}
		first = parent
	}
	return first
}

func isWithinDirectory(path, directory string) bool {
	relativePath, relError := filepath.Rel(directory, path)
	if relError != nil {
		return false
	}
	return relativePath == "." || (relativePath != ".." && !strings.HasPrefix(relativePath, ".."+string(filepath.Separator)))
}

// FindUserPyprojectToml returns the location of the user-level configuration file.
func FindUserPyprojectToml() (string, error) {
	if runtime.GOOS == windowsOperatingSystem {
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return "", fmt.Errorf("resolve home directory: %w", homeError)
		}
		return filepath.Join(homeDirectory, windowsConfigDirectoryName), nil
	}
	configRoot := os.Getenv(xdgConfigHomeEnvironmentName)
	if configRoot == "" {
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return "", fmt.Errorf("resolve home directory: %w", homeError)
		}
		configRoot = filepath.Join(homeDirectory, defaultConfigDirectoryName)
	}
	return filepath.Join(configRoot, ApplicationName), nil
}

// FindPyprojectToml returns the project pyproject.toml for searchStart when it exists,
// otherwise the user-level configuration file when it exists, otherwise "".
// Failures to inspect the user-level location are logged and ignored.
func FindPyprojectToml(searchStart []string, logger *zap.Logger) (string, error) {
	projectRoot, rootError := FindProjectRoot(searchStart)
	if rootError != nil {
		return "", rootError
	}
	projectFile := filepath.Join(projectRoot, utils.PyprojectFileName)
	if info, statError := os.Stat(projectFile); statError == nil && info.Mode().IsRegular() {
		return projectFile, nil
	}

	userFile, userError := FindUserPyprojectToml()
	if userError != nil {
		warnUserConfiguration(logger, userError)
		return "", nil
	}
	info, statError := os.Stat(userFile)
	if statError != nil {
		if errors.Is(statError, fs.ErrPermission) {
			warnUserConfiguration(logger, statError)
		}
		return "", nil
	}
	if !info.Mode().IsRegular() {
		return "", nil
	}
	return userFile, nil
}

func warnUserConfiguration(logger *zap.Logger, cause error) {
	if logger == nil {
		return
	}
	logger.Warn(fmt.Sprintf(userConfigurationWarning, cause))
}
