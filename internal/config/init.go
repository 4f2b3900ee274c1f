package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/promptpick/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `walker:
  ignored_directories: [node_modules, venv, .git, __pycache__, .idea, .vscode]
  ignored_suffixes: [.DS_Store, Thumbs.db, .env, .pyc, .jpg, .jpeg, .png, .gif, .mp4, .exe, .dll, .bin]
  text_suffixes: [.txt, .md, .json, .js, .ts, .css, .html, .xml, .yaml, .yml, .kt, .kts, .java, .py, .rb, .go, .mod, .sum, .toml, .sh, .sql]
  use_gitignore: true
store:
  state_file: fileviewer.json
  debounce: 500ms
extract:
  workers: 4
  cache_entries: 256
tokens:
  model: estimate
export:
  clipboard: false
log:
  level: info
`

	errorInitWorkingDirectoryFormat = "determine working directory for configuration: %w"
	errorInitHomeFormat             = "resolve home directory for configuration: %w"
	errorInitCreateDirFormat        = "create configuration directory %s: %w"
	errorInitTargetFormat           = "unsupported init target %q"
	errorInitExistsFormat           = "configuration file already exists at %s"
	errorInitInspectFormat          = "inspect configuration path %s: %w"
	errorInitWriteFormat            = "write configuration to %s: %w"
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
				return "", fmt.Errorf(errorInitWorkingDirectoryFormat, err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf(errorInitHomeFormat, err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf(errorInitCreateDirFormat, configurationDirectory, err)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.ConfigFileName)
	default:
		return "", fmt.Errorf(errorInitTargetFormat, target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf(errorInitExistsFormat, destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf(errorInitInspectFormat, destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf(errorInitWriteFormat, destinationPath, err)
	}

	return destinationPath, nil
}
