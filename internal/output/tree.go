// Package output renders viewer state as text: the pruned selection tree,
// the export document and the full tree listing.
package output

import (
	"strings"

	"github.com/temirov/promptpick/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
)

// RenderTree draws the part of the tree that leads to selected files. A node
// is drawn when it is selected or has a selected descendant at any depth;
// expansion plays no role.
func RenderTree(node *types.FileTreeNode, selectedPaths types.PathSet) string {
	if node == nil {
		return ""
	}
	visibility := make(map[*types.FileTreeNode]bool)
	markVisible(node, selectedPaths, visibility)
	var builder strings.Builder
	renderVisibleNode(&builder, node, "", true, visibility)
	return builder.String()
}

func markVisible(node *types.FileTreeNode, selectedPaths types.PathSet, visibility map[*types.FileTreeNode]bool) bool {
	visible := selectedPaths.Contains(node.Path)
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		if markVisible(child, selectedPaths, visibility) {
			visible = true
		}
	}
	visibility[node] = visible
	return visible
}

func renderVisibleNode(builder *strings.Builder, node *types.FileTreeNode, prefix string, isLast bool, visibility map[*types.FileTreeNode]bool) {
	if !visibility[node] {
		return
	}
	connector, childPrefix := treeBranchConnector, prefix+treeBranchPadding
	if isLast {
		connector, childPrefix = treeLastConnector, prefix+treeLastPadding
	}
	builder.WriteString(prefix + connector + node.Name + "\n")

	visibleChildren := make([]*types.FileTreeNode, 0, len(node.Children))
	for _, child := range node.Children {
		if child != nil && visibility[child] {
			visibleChildren = append(visibleChildren, child)
		}
	}
	for index, child := range visibleChildren {
		renderVisibleNode(builder, child, childPrefix, index == len(visibleChildren)-1, visibility)
	}
}
