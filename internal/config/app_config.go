// Package config loads promptpick settings from the global and local YAML
// files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/promptpick/internal/extract"
	"github.com/temirov/promptpick/internal/session"
	"github.com/temirov/promptpick/internal/store"
	"github.com/temirov/promptpick/internal/utils"
	"github.com/temirov/promptpick/internal/walker"
)

const (
	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorResolveConfigFormat    = "resolve configuration path %s: %w"
	errorStatConfigFormat       = "stat configuration %s: %w"
	errorConfigIsDirFormat      = "configuration path %s is a directory"
	errorReadConfigFormat       = "read configuration from %s: %w"
	errorDecodeConfigFormat     = "decode configuration from %s: %w"
	errorDebounceFormat         = "parse store.debounce %q: %w"
	errorNegativeDebounceFormat = "store.debounce %q must not be negative"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds every configurable default.
type ApplicationConfiguration struct {
	Walker  WalkerConfiguration  `mapstructure:"walker"`
	Store   StoreConfiguration   `mapstructure:"store"`
	Extract ExtractConfiguration `mapstructure:"extract"`
	Tokens  TokenConfiguration   `mapstructure:"tokens"`
	Export  ExportConfiguration  `mapstructure:"export"`
	Log     LogConfiguration     `mapstructure:"log"`
}

// WalkerConfiguration overrides the directory walker lists.
type WalkerConfiguration struct {
	IgnoredDirectories []string `mapstructure:"ignored_directories"`
	IgnoredSuffixes    []string `mapstructure:"ignored_suffixes"`
	TextSuffixes       []string `mapstructure:"text_suffixes"`
	UseGitignore       *bool    `mapstructure:"use_gitignore"`
}

// StoreConfiguration locates the saved state and sets the save quiet period.
type StoreConfiguration struct {
	StateFile string `mapstructure:"state_file"`
	Debounce  string `mapstructure:"debounce"`
}

// ExtractConfiguration bounds extraction concurrency and caching.
type ExtractConfiguration struct {
	Workers      *int `mapstructure:"workers"`
	CacheEntries *int `mapstructure:"cache_entries"`
}

// TokenConfiguration selects the model used for exact token counts.
type TokenConfiguration struct {
	Model string `mapstructure:"model"`
}

// ExportConfiguration controls the export command.
type ExportConfiguration struct {
	Clipboard *bool `mapstructure:"clipboard"`
}

// LogConfiguration sets the logger level.
type LogConfiguration struct {
	Level string `mapstructure:"level"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	return merged.Merge(localConfig), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath, nil
	}
	if workingDirectory == "" {
		absolute, err := filepath.Abs(explicitPath)
		if err != nil {
			return "", fmt.Errorf(errorResolveConfigFormat, explicitPath, err)
		}
		return absolute, nil
	}
	return filepath.Join(workingDirectory, explicitPath), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatConfigFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorConfigIsDirFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadConfigFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeConfigFormat, path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Walker = result.Walker.merge(override.Walker)
	if override.Store.StateFile != "" {
		result.Store.StateFile = override.Store.StateFile
	}
	if override.Store.Debounce != "" {
		result.Store.Debounce = override.Store.Debounce
	}
	if override.Extract.Workers != nil {
		result.Extract.Workers = cloneInt(override.Extract.Workers)
	}
	if override.Extract.CacheEntries != nil {
		result.Extract.CacheEntries = cloneInt(override.Extract.CacheEntries)
	}
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
	}
	if override.Export.Clipboard != nil {
		result.Export.Clipboard = cloneBool(override.Export.Clipboard)
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	return result
}

func (config WalkerConfiguration) merge(override WalkerConfiguration) WalkerConfiguration {
	result := config
	if len(override.IgnoredDirectories) > 0 {
		result.IgnoredDirectories = utils.DeduplicatePatterns(override.IgnoredDirectories)
	}
	if len(override.IgnoredSuffixes) > 0 {
		result.IgnoredSuffixes = utils.DeduplicatePatterns(override.IgnoredSuffixes)
	}
	if len(override.TextSuffixes) > 0 {
		result.TextSuffixes = utils.DeduplicatePatterns(override.TextSuffixes)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	return result
}

// WalkerOptions applies the configured lists over walker.DefaultOptions.
func (config ApplicationConfiguration) WalkerOptions() walker.Options {
	options := walker.DefaultOptions()
	if len(config.Walker.IgnoredDirectories) > 0 {
		options.IgnoredDirectories = append([]string(nil), config.Walker.IgnoredDirectories...)
	}
	if len(config.Walker.IgnoredSuffixes) > 0 {
		options.IgnoredSuffixes = append([]string(nil), config.Walker.IgnoredSuffixes...)
	}
	if len(config.Walker.TextSuffixes) > 0 {
		options.TextSuffixes = append([]string(nil), config.Walker.TextSuffixes...)
	}
	if config.Walker.UseGitignore != nil {
		options.UseGitIgnore = *config.Walker.UseGitignore
	}
	return options
}

// StateFilePath resolves the saved state location against workingDirectory.
func (config ApplicationConfiguration) StateFilePath(workingDirectory string) string {
	stateFile := strings.TrimSpace(config.Store.StateFile)
	if stateFile == "" {
		stateFile = utils.DefaultStateFileName
	}
	return utils.ResolveAgainstRoot(workingDirectory, stateFile)
}

// QuietPeriod parses store.debounce, defaulting to store.DefaultQuietPeriod.
func (config ApplicationConfiguration) QuietPeriod() (time.Duration, error) {
	debounce := strings.TrimSpace(config.Store.Debounce)
	if debounce == "" {
		return store.DefaultQuietPeriod, nil
	}
	duration, err := time.ParseDuration(debounce)
	if err != nil {
		return 0, fmt.Errorf(errorDebounceFormat, debounce, err)
	}
	if duration < 0 {
		return 0, fmt.Errorf(errorNegativeDebounceFormat, debounce)
	}
	return duration, nil
}

// ExtractOptions returns the extractor cache configuration.
func (config ApplicationConfiguration) ExtractOptions() extract.Options {
	options := extract.Options{CacheEntries: extract.DefaultCacheEntries}
	if config.Extract.CacheEntries != nil && *config.Extract.CacheEntries > 0 {
		options.CacheEntries = *config.Extract.CacheEntries
	}
	return options
}

// Workers returns the extraction concurrency limit.
func (config ApplicationConfiguration) Workers() int {
	if config.Extract.Workers != nil && *config.Extract.Workers > 0 {
		return *config.Extract.Workers
	}
	return session.DefaultWorkers
}

// CopyByDefault reports whether export writes to the clipboard without --copy.
func (config ApplicationConfiguration) CopyByDefault() bool {
	return config.Export.Clipboard != nil && *config.Export.Clipboard
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
