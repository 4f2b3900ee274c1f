package output

import (
	"strings"

	"github.com/temirov/promptpick/internal/types"
	"github.com/temirov/promptpick/internal/utils"
)

const (
	selectedFileMarker     = "[x] "
	selectableFileMarker   = "[ ] "
	unselectableFileMarker = "[-] "
	expandedDirectoryMark  = "v "
	collapsedDirectoryMark = "> "
	directorySuffix        = "/"
	fileSizeOpen           = " ("
	fileSizeClose          = ")"
)

// ListingOptions controls RenderListing.
type ListingOptions struct {
	// ExpandedOnly hides the children of collapsed directories. The root is
	// always listed with its children.
	ExpandedOnly bool
}

// RenderListing draws every node of the state's tree with its selection and
// expansion markers and the size of each file.
func RenderListing(state types.ViewerState, options ListingOptions) string {
	if state.Root == nil {
		return ""
	}
	var builder strings.Builder
	builder.WriteString(listingLine(state, state.Root) + "\n")
	writeListingChildren(&builder, state, state.Root, "", options)
	return builder.String()
}

func writeListingChildren(builder *strings.Builder, state types.ViewerState, directory *types.FileTreeNode, prefix string, options ListingOptions) {
	for index, child := range directory.Children {
		if child == nil {
			continue
		}
		isLast := index == len(directory.Children)-1
		connector, childPrefix := treeBranchConnector, prefix+treeBranchPadding
		if isLast {
			connector, childPrefix = treeLastConnector, prefix+treeLastPadding
		}
		builder.WriteString(prefix + connector + listingLine(state, child) + "\n")
		if !child.IsDirectory {
			continue
		}
		if options.ExpandedOnly && !state.ExpandedPaths.Contains(child.Path) {
			continue
		}
		writeListingChildren(builder, state, child, childPrefix, options)
	}
}

func listingLine(state types.ViewerState, node *types.FileTreeNode) string {
	if node.IsDirectory {
		mark := collapsedDirectoryMark
		if state.ExpandedPaths.Contains(node.Path) {
			mark = expandedDirectoryMark
		}
		return mark + node.Name + directorySuffix
	}
	marker := unselectableFileMarker
	switch {
	case state.SelectedPaths.Contains(node.Path):
		marker = selectedFileMarker
	case node.IsSelectable():
		marker = selectableFileMarker
	}
	return marker + node.Name + fileSizeOpen + utils.FormatFileSize(node.Size) + fileSizeClose
}
