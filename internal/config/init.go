package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/retouch/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes pyproject.toml into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes the user-level configuration file.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `[tool.retouch]
revision = "HEAD"
formatter = "black"
formatter_command = "black -q -"
use_gitignore = true
check_syntax = false
workers = 4
copy = false

[tool.black]
extend-exclude = ""
force-exclude = ""
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.PyprojectFileName)
	case InitTargetGlobal:
		userPath, err := FindUserPyprojectToml()
		if err != nil {
			return "", err
		}
		configurationDirectory := filepath.Dir(userPath)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = userPath
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
