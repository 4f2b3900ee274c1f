// Package session coordinates user intents with the state store: it runs
// scans and text extraction off the store goroutine and feeds their results
// back as transforms.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/promptpick/internal/output"
	"github.com/temirov/promptpick/internal/selection"
	"github.com/temirov/promptpick/internal/services/clipboard"
	"github.com/temirov/promptpick/internal/store"
	"github.com/temirov/promptpick/internal/types"
)

// DefaultWorkers bounds concurrent extractions when Dependencies.Workers is unset.
const DefaultWorkers = 4

const (
	errorScanFormat = "scan %s: %w"

	logMessageStaleScan       = "discarding superseded directory scan"
	logMessageExtractFailed   = "failed to extract text"
	logMessageRejectedToggle  = "ignoring selection toggle of a path that is not a selectable file"
	logMessageRejectedExpand  = "ignoring expansion toggle of a path that is not a directory"
	logMessageDirectoryOpened = "directory opened"
	logFieldPath              = "path"
	logFieldSelected          = "selected"
	logFieldRequest           = "request"
)

var (
	// ErrScanSuperseded is returned by OpenDirectory when a newer request
	// was issued while its scan was running.
	ErrScanSuperseded = errors.New("directory scan superseded by a newer request")
	// ErrNoCopier is returned by CopyToClipboard without a configured Copier.
	ErrNoCopier = errors.New("no clipboard configured")
)

// TreeScanner produces a file tree snapshot of a directory.
type TreeScanner interface {
	Scan(ctx context.Context, rootPath string) (*types.FileTreeNode, error)
}

// TextExtractor returns the plain text of a file.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// Dependencies wires a Session.
type Dependencies struct {
	Store     *store.Store
	Scanner   TreeScanner
	Extractor TextExtractor
	Copier    clipboard.Copier
	Logger    *zap.Logger
	Workers   int
}

// Session translates user intents into store transforms.
type Session struct {
	store        *store.Store
	scanner      TreeScanner
	extractor    TextExtractor
	copier       clipboard.Copier
	logger       *zap.Logger
	workers      int
	scanSequence atomic.Uint64
}

// New constructs a Session.
func New(dependencies Dependencies) *Session {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := dependencies.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Session{
		store:     dependencies.Store,
		scanner:   dependencies.Scanner,
		extractor: dependencies.Extractor,
		copier:    dependencies.Copier,
		logger:    logger,
		workers:   workers,
	}
}

// Snapshot returns the current state.
func (session *Session) Snapshot() types.ViewerState {
	return session.store.Snapshot()
}

// OpenDirectory scans path and installs the result as the new root, clearing
// selection, expansion and loaded texts. With restore the persisted
// selection and expansion are re-applied and their texts loaded. A scan that
// finishes after a newer OpenDirectory call was issued is discarded with
// ErrScanSuperseded.
func (session *Session) OpenDirectory(ctx context.Context, path string, restore bool) (types.ViewerState, error) {
	request := session.scanSequence.Add(1)
	root, scanError := session.scanner.Scan(ctx, path)
	if scanError != nil {
		return session.Snapshot(), fmt.Errorf(errorScanFormat, path, scanError)
	}

	var saved types.SavedState
	if restore {
		saved = session.store.LoadSaved()
	}
	superseded := false
	state, applyError := session.store.Apply(ctx, func(current types.ViewerState) types.ViewerState {
		if session.scanSequence.Load() != request {
			superseded = true
			return current
		}
		next := selection.ReplaceRoot(root)(current)
		if restore {
			next = selection.RestoreSaved(saved)(next)
		}
		return next
	})
	if applyError != nil {
		return state, applyError
	}
	if superseded {
		session.logger.Warn(logMessageStaleScan, zap.String(logFieldPath, path), zap.Uint64(logFieldRequest, request))
		return state, ErrScanSuperseded
	}
	session.logger.Debug(logMessageDirectoryOpened, zap.String(logFieldPath, root.Path), zap.Int(logFieldSelected, state.SelectedPaths.Len()))
	if !restore {
		return state, nil
	}
	return session.LoadSelectedContents(ctx)
}

// Restore re-applies saved to the current tree and loads the texts of the
// restored selection.
func (session *Session) Restore(ctx context.Context, saved types.SavedState) (types.ViewerState, error) {
	if _, applyError := session.store.Apply(ctx, selection.RestoreSaved(saved)); applyError != nil {
		return session.Snapshot(), applyError
	}
	return session.LoadSelectedContents(ctx)
}

// LoadSelectedContents extracts the text of every selected file that has
// none loaded yet.
func (session *Session) LoadSelectedContents(ctx context.Context) (types.ViewerState, error) {
	return session.LoadContents(ctx, selection.MissingContents(session.Snapshot()))
}

// LoadContents extracts paths concurrently and stores each text while its
// path is still selected. Extraction failures are logged and leave the path
// without text.
func (session *Session) LoadContents(ctx context.Context, paths []string) (types.ViewerState, error) {
	if len(paths) == 0 || session.extractor == nil {
		return session.Snapshot(), nil
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(session.workers)
	for _, path := range paths {
		path := path
		group.Go(func() error {
			if contextError := groupCtx.Err(); contextError != nil {
				return contextError
			}
			text, extractError := session.extractor.ExtractText(path)
			if extractError != nil {
				session.logger.Warn(logMessageExtractFailed, zap.String(logFieldPath, path), zap.Error(extractError))
				return nil
			}
			_, applyError := session.store.Apply(groupCtx, selection.StoreContent(path, text))
			return applyError
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return session.Snapshot(), waitError
	}
	return session.Snapshot(), nil
}

// ToggleSelection selects or deselects path. Paths that are not selectable
// files of the current tree are ignored. A newly selected file has its text
// loaded before ToggleSelection returns.
func (session *Session) ToggleSelection(ctx context.Context, path string) (types.ViewerState, error) {
	rejected := false
	state, applyError := session.store.Apply(ctx, func(current types.ViewerState) types.ViewerState {
		if !selection.IsSelectable(current.Root, path) {
			rejected = true
			return current
		}
		return selection.ToggleSelection(path)(current)
	})
	if applyError != nil {
		return state, applyError
	}
	if rejected {
		session.logger.Warn(logMessageRejectedToggle, zap.String(logFieldPath, path))
		return state, nil
	}
	if _, loaded := state.FileContents.Get(path); state.SelectedPaths.Contains(path) && !loaded {
		return session.LoadContents(ctx, []string{path})
	}
	return state, nil
}

// SelectAll selects every selectable file and loads the missing texts.
func (session *Session) SelectAll(ctx context.Context) (types.ViewerState, error) {
	state, applyError := session.store.Apply(ctx, selection.SelectAll)
	if applyError != nil {
		return state, applyError
	}
	return session.LoadContents(ctx, selection.MissingContents(state))
}

// DeselectAll clears the selection.
func (session *Session) DeselectAll(ctx context.Context) (types.ViewerState, error) {
	return session.store.Apply(ctx, selection.DeselectAll)
}

// ToggleExpansion expands or collapses a directory of the current tree.
func (session *Session) ToggleExpansion(ctx context.Context, path string) (types.ViewerState, error) {
	rejected := false
	state, applyError := session.store.Apply(ctx, func(current types.ViewerState) types.ViewerState {
		if !selection.IsDirectory(current.Root, path) {
			rejected = true
			return current
		}
		return selection.ToggleExpansion(path)(current)
	})
	if applyError == nil && rejected {
		session.logger.Warn(logMessageRejectedExpand, zap.String(logFieldPath, path))
	}
	return state, applyError
}

// ExpandAll expands every directory.
func (session *Session) ExpandAll(ctx context.Context) (types.ViewerState, error) {
	return session.store.Apply(ctx, selection.ExpandAll)
}

// CollapseAll collapses every directory.
func (session *Session) CollapseAll(ctx context.Context) (types.ViewerState, error) {
	return session.store.Apply(ctx, selection.CollapseAll)
}

// Clear resets the state, root included.
func (session *Session) Clear(ctx context.Context) (types.ViewerState, error) {
	return session.store.Apply(ctx, selection.Clear)
}

// Export builds the export document of the current state.
func (session *Session) Export() string {
	return output.BuildExportDocument(session.Snapshot())
}

// CopyToClipboard writes the export document to the clipboard and returns it.
func (session *Session) CopyToClipboard() (string, error) {
	if session.copier == nil {
		return "", ErrNoCopier
	}
	document := session.Export()
	if copyError := session.copier.Copy(document); copyError != nil {
		return "", copyError
	}
	return document, nil
}
