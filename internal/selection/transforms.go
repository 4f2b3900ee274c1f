package selection

import (
	"github.com/temirov/promptpick/internal/tokenizer"
	"github.com/temirov/promptpick/internal/types"
)

// SelectAll selects every selectable file of the current tree.
func SelectAll(state types.ViewerState) types.ViewerState {
	state.SelectedPaths = AllSelectablePaths(state.Root)
	state.FileContents = state.FileContents.Retain(state.SelectedPaths)
	return state
}

// DeselectAll empties the selection and drops every loaded text.
func DeselectAll(state types.ViewerState) types.ViewerState {
	state.SelectedPaths = types.PathSet{}
	state.FileContents = types.FileContents{}
	return state
}

// ExpandAll expands every directory of the current tree.
func ExpandAll(state types.ViewerState) types.ViewerState {
	state.ExpandedPaths = AllDirectoryPaths(state.Root)
	return state
}

// CollapseAll collapses every directory.
func CollapseAll(state types.ViewerState) types.ViewerState {
	state.ExpandedPaths = types.PathSet{}
	return state
}

// Clear resets the whole state, root included.
func Clear(types.ViewerState) types.ViewerState {
	return types.ViewerState{}
}

// ToggleSelection toggles path in the selection. Text loaded for a path that
// leaves the selection is dropped.
func ToggleSelection(path string) types.Transform {
	return func(state types.ViewerState) types.ViewerState {
		state.SelectedPaths = Toggle(state.SelectedPaths, path)
		if !state.SelectedPaths.Contains(path) {
			state.FileContents = state.FileContents.Without(path)
		}
		return state
	}
}

// ToggleExpansion toggles path in the expanded set.
func ToggleExpansion(path string) types.Transform {
	return func(state types.ViewerState) types.ViewerState {
		state.ExpandedPaths = Toggle(state.ExpandedPaths, path)
		return state
	}
}

// ReplaceRoot installs a freshly scanned tree, discarding selection,
// expansion and loaded texts of the previous one.
func ReplaceRoot(root *types.FileTreeNode) types.Transform {
	return func(types.ViewerState) types.ViewerState {
		return types.ViewerState{Root: root}
	}
}

// RestoreSaved re-applies a persisted selection and expansion, keeping only
// paths that are still selectable files or directories of the current tree.
func RestoreSaved(saved types.SavedState) types.Transform {
	return func(state types.ViewerState) types.ViewerState {
		selectable := AllSelectablePaths(state.Root)
		directories := AllDirectoryPaths(state.Root)
		state.SelectedPaths = types.NewPathSet(saved.SelectedPaths...).Filter(selectable.Contains)
		state.ExpandedPaths = types.NewPathSet(saved.ExpandedNodes...).Filter(directories.Contains)
		state.FileContents = state.FileContents.Retain(state.SelectedPaths)
		return state
	}
}

// StoreContent records text for path if path is still selected when the
// transform is applied. The token estimate is computed once, here.
func StoreContent(path string, text string) types.Transform {
	return func(state types.ViewerState) types.ViewerState {
		if !state.SelectedPaths.Contains(path) {
			return state
		}
		state.FileContents = state.FileContents.With(path, text, tokenizer.EstimateTokens(text))
		return state
	}
}
