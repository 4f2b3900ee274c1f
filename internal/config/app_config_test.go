package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/temirov/promptpick/internal/store"
	"github.com/temirov/promptpick/internal/utils"
	"github.com/temirov/promptpick/internal/walker"
)

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

func writeConfigurations(t *testing.T, globalContent string, localContent string) (string, string) {
	t.Helper()
	homeDir := t.TempDir()
	workingDir := t.TempDir()
	configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if globalContent != "" {
		if err := os.WriteFile(filepath.Join(configDir, utils.ConfigFileName), []byte(globalContent), 0o600); err != nil {
			t.Fatalf("write global config: %v", err)
		}
	}
	if localContent != "" {
		if err := os.WriteFile(filepath.Join(workingDir, utils.ConfigFileName), []byte(localContent), 0o600); err != nil {
			t.Fatalf("write local config: %v", err)
		}
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	return homeDir, workingDir
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name            string
		globalContent   string
		localContent    string
		expectModel     string
		expectDebounce  string
		expectClipboard *bool
		expectWorkers   *int
		expectGitignore *bool
	}{
		{
			name:            "local_overrides_global",
			globalContent:   "tokens:\n  model: gpt-4o\nstore:\n  debounce: 1s\nexport:\n  clipboard: true\n",
			localContent:    "store:\n  debounce: 250ms\nexport:\n  clipboard: false\nextract:\n  workers: 8\n",
			expectModel:     "gpt-4o",
			expectDebounce:  "250ms",
			expectClipboard: boolPointer(false),
			expectWorkers:   intPointer(8),
		},
		{
			name:            "global_only",
			globalContent:   "walker:\n  use_gitignore: false\n",
			expectGitignore: boolPointer(false),
		},
		{
			name: "no_files",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, workingDir := writeConfigurations(t, testCase.globalContent, testCase.localContent)
			loaded, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			if loaded.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loaded.Tokens.Model)
			}
			if loaded.Store.Debounce != testCase.expectDebounce {
				t.Fatalf("expected debounce %q, got %q", testCase.expectDebounce, loaded.Store.Debounce)
			}
			if !reflect.DeepEqual(loaded.Export.Clipboard, testCase.expectClipboard) {
				t.Fatalf("unexpected clipboard value %v", loaded.Export.Clipboard)
			}
			if !reflect.DeepEqual(loaded.Extract.Workers, testCase.expectWorkers) {
				t.Fatalf("unexpected workers value %v", loaded.Extract.Workers)
			}
			if !reflect.DeepEqual(loaded.Walker.UseGitignore, testCase.expectGitignore) {
				t.Fatalf("unexpected use_gitignore value %v", loaded.Walker.UseGitignore)
			}
		})
	}
}

func TestLoadApplicationConfigurationExplicitPath(t *testing.T) {
	_, workingDir := writeConfigurations(t, "", "tokens:\n  model: ignored\n")
	explicitPath := filepath.Join(workingDir, "custom.yaml")
	if err := os.WriteFile(explicitPath, []byte("tokens:\n  model: gpt-4o-mini\n"), 0o600); err != nil {
		t.Fatalf("write explicit config: %v", err)
	}
	loaded, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir, ExplicitFilePath: "custom.yaml"})
	if err != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	if loaded.Tokens.Model != "gpt-4o-mini" {
		t.Fatalf("expected explicit model, got %q", loaded.Tokens.Model)
	}
}

func TestWalkerOptionsOverrideDefaults(t *testing.T) {
	configuration := ApplicationConfiguration{Walker: WalkerConfiguration{
		IgnoredDirectories: []string{"dist"},
		UseGitignore:       boolPointer(false),
	}}
	options := configuration.WalkerOptions()
	if !reflect.DeepEqual(options.IgnoredDirectories, []string{"dist"}) {
		t.Fatalf("unexpected ignored directories %v", options.IgnoredDirectories)
	}
	if options.UseGitIgnore {
		t.Fatalf("expected gitignore support disabled")
	}
	if !reflect.DeepEqual(options.TextSuffixes, walker.DefaultTextSuffixes) {
		t.Fatalf("expected default text suffixes, got %v", options.TextSuffixes)
	}
}

func TestQuietPeriod(t *testing.T) {
	testCases := []struct {
		name        string
		debounce    string
		expected    time.Duration
		expectError bool
	}{
		{name: "default", debounce: "", expected: store.DefaultQuietPeriod},
		{name: "explicit", debounce: "2s", expected: 2 * time.Second},
		{name: "invalid", debounce: "soon", expectError: true},
		{name: "negative", debounce: "-1s", expectError: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			configuration := ApplicationConfiguration{Store: StoreConfiguration{Debounce: testCase.debounce}}
			duration, err := configuration.QuietPeriod()
			if testCase.expectError {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}
			if err != nil || duration != testCase.expected {
				t.Fatalf("expected %v, got %v (%v)", testCase.expected, duration, err)
			}
		})
	}
}

func TestStateFilePath(t *testing.T) {
	workingDir := filepath.Join(string(filepath.Separator), "work")
	if path := (ApplicationConfiguration{}).StateFilePath(workingDir); path != filepath.Join(workingDir, utils.DefaultStateFileName) {
		t.Fatalf("unexpected default state path %s", path)
	}
	absolute := filepath.Join(string(filepath.Separator), "state", "custom.json")
	configuration := ApplicationConfiguration{Store: StoreConfiguration{StateFile: absolute}}
	if path := configuration.StateFilePath(workingDir); path != absolute {
		t.Fatalf("expected %s, got %s", absolute, path)
	}
}
