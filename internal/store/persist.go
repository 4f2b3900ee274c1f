package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/promptpick/internal/types"
)

const (
	stateFilePermissions      = 0o644
	stateDirectoryPermissions = 0o755
	temporaryFileSuffix       = ".tmp"
	jsonIndent                = "  "

	errorEncodeStateFormat = "encode saved state: %w"
	errorCreateDirFormat   = "create state directory %s: %w"
	errorWriteStateFormat  = "write saved state %s: %w"
	errorReplaceFormat     = "replace saved state %s: %w"

	logMessageNoSavedState  = "no saved state"
	logMessageUnreadable    = "saved state unreadable, starting empty"
	logMessageCorruptedJSON = "saved state corrupted, starting empty"
	logFieldStatePath       = "path"
)

// JSONFilePersister stores SavedState as an indented JSON document.
type JSONFilePersister struct {
	Path   string
	Logger *zap.Logger
}

// NewJSONFilePersister returns a persister writing to path.
func NewJSONFilePersister(path string, logger *zap.Logger) *JSONFilePersister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONFilePersister{Path: path, Logger: logger}
}

// Load reads the saved state. A missing, unreadable or malformed document
// yields an empty SavedState.
func (persister *JSONFilePersister) Load() types.SavedState {
	empty := types.SavedState{SelectedPaths: []string{}, ExpandedNodes: []string{}}
	logger := persister.logger()
	content, readError := os.ReadFile(persister.Path)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			logger.Debug(logMessageNoSavedState, zap.String(logFieldStatePath, persister.Path))
		} else {
			logger.Warn(logMessageUnreadable, zap.String(logFieldStatePath, persister.Path), zap.Error(readError))
		}
		return empty
	}
	var saved types.SavedState
	if decodeError := json.Unmarshal(content, &saved); decodeError != nil {
		logger.Warn(logMessageCorruptedJSON, zap.String(logFieldStatePath, persister.Path), zap.Error(decodeError))
		return empty
	}
	if saved.SelectedPaths == nil {
		saved.SelectedPaths = []string{}
	}
	if saved.ExpandedNodes == nil {
		saved.ExpandedNodes = []string{}
	}
	return saved
}

// Save writes saved next to the target and renames it into place.
func (persister *JSONFilePersister) Save(saved types.SavedState) error {
	encoded, encodeError := json.MarshalIndent(saved, "", jsonIndent)
	if encodeError != nil {
		return fmt.Errorf(errorEncodeStateFormat, encodeError)
	}
	directory := filepath.Dir(persister.Path)
	if mkdirError := os.MkdirAll(directory, stateDirectoryPermissions); mkdirError != nil {
		return fmt.Errorf(errorCreateDirFormat, directory, mkdirError)
	}
	temporaryPath := persister.Path + temporaryFileSuffix
	if writeError := os.WriteFile(temporaryPath, encoded, stateFilePermissions); writeError != nil {
		return fmt.Errorf(errorWriteStateFormat, temporaryPath, writeError)
	}
	if renameError := os.Rename(temporaryPath, persister.Path); renameError != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf(errorReplaceFormat, persister.Path, renameError)
	}
	return nil
}

func (persister *JSONFilePersister) logger() *zap.Logger {
	if persister.Logger == nil {
		return zap.NewNop()
	}
	return persister.Logger
}
