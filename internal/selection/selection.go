// Package selection derives path sets from a file tree and implements the
// state transitions driven by user interaction.
package selection

import "github.com/temirov/promptpick/internal/types"

// AllDirectoryPaths returns every directory path in the tree, root included.
func AllDirectoryPaths(root *types.FileTreeNode) types.PathSet {
	var paths []string
	walk(root, func(node *types.FileTreeNode) {
		if node.IsDirectory {
			paths = append(paths, node.Path)
		}
	})
	return types.NewPathSet(paths...)
}

// AllSelectablePaths returns every selectable file path in traversal order,
// regardless of which directories are expanded.
func AllSelectablePaths(root *types.FileTreeNode) types.PathSet {
	var paths []string
	walk(root, func(node *types.FileTreeNode) {
		if node.IsSelectable() {
			paths = append(paths, node.Path)
		}
	})
	return types.NewPathSet(paths...)
}

// Toggle adds path to set when absent and removes it when present. The path
// is not validated against any tree.
func Toggle(set types.PathSet, path string) types.PathSet {
	return set.Toggle(path)
}

// FindNode locates the node with path by traversal from root.
func FindNode(root *types.FileTreeNode, path string) *types.FileTreeNode {
	if root == nil {
		return nil
	}
	if root.Path == path {
		return root
	}
	for _, child := range root.Children {
		if found := FindNode(child, path); found != nil {
			return found
		}
	}
	return nil
}

// IsSelectable reports whether path names a selectable file within root.
func IsSelectable(root *types.FileTreeNode, path string) bool {
	return FindNode(root, path).IsSelectable()
}

// IsDirectory reports whether path names a directory within root.
func IsDirectory(root *types.FileTreeNode, path string) bool {
	node := FindNode(root, path)
	return node != nil && node.IsDirectory
}

// DeriveStats computes Stats from the selection and the token estimates
// recorded with the loaded contents.
func DeriveStats(state types.ViewerState) types.Stats {
	totalTokens := 0
	for _, path := range state.SelectedPaths.Paths() {
		if tokens, loaded := state.FileContents.Tokens(path); loaded {
			totalTokens += tokens
		}
	}
	return types.Stats{
		SelectedCount: state.SelectedPaths.Len(),
		TotalTokens:   totalTokens,
	}
}

// MissingContents lists selected paths whose text has not been loaded yet.
func MissingContents(state types.ViewerState) []string {
	var missing []string
	for _, path := range state.SelectedPaths.Paths() {
		if _, loaded := state.FileContents.Get(path); !loaded {
			missing = append(missing, path)
		}
	}
	return missing
}

func walk(node *types.FileTreeNode, visit func(*types.FileTreeNode)) {
	if node == nil {
		return
	}
	visit(node)
	for _, child := range node.Children {
		walk(child, visit)
	}
}
