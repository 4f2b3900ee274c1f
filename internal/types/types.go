// Package types defines every cross‑package data structure used by the promptpick CLI.
package types

const (
	CommandTree   = "tree"
	CommandSelect = "select"
	CommandExpand = "expand"
	CommandPick   = "pick"
	CommandExport = "export"
	CommandStatus = "status"
	CommandClear  = "clear"
)

// FileTreeNode is one entry of a scanned directory tree. Path is the absolute
// path and identifies the node in every set and map.
type FileTreeNode struct {
	Name             string          `json:"name"`
	Path             string          `json:"path"`
	IsDirectory      bool            `json:"isDirectory"`
	Size             int64           `json:"size,omitempty"`
	IsSelectableText bool            `json:"isSelectableText,omitempty"`
	Children         []*FileTreeNode `json:"children,omitempty"`
}

// IsSelectable reports whether the node may be part of a selection.
func (node *FileTreeNode) IsSelectable() bool {
	return node != nil && !node.IsDirectory && node.IsSelectableText
}

// Stats is derived from SelectedPaths and FileContents after every transition.
type Stats struct {
	SelectedCount int `json:"selectedCount"`
	TotalTokens   int `json:"totalTokens"`
}

// ViewerState is the complete application state. It is replaced, never
// mutated, on each transition; the zero value is the initial empty state.
type ViewerState struct {
	Root          *FileTreeNode
	SelectedPaths PathSet
	ExpandedPaths PathSet
	FileContents  FileContents
	Stats         Stats
}

// Transform maps a settled state to its successor.
type Transform func(ViewerState) ViewerState

// SavedState is the durable subset of ViewerState.
type SavedState struct {
	SelectedPaths []string `json:"selectedPaths"`
	ExpandedNodes []string `json:"expandedNodes"`
}

// SavedStateOf extracts the durable subset of state, always with non-nil lists.
func SavedStateOf(state ViewerState) SavedState {
	return SavedState{
		SelectedPaths: state.SelectedPaths.Paths(),
		ExpandedNodes: state.ExpandedPaths.Paths(),
	}
}
