package output

import (
	"fmt"
	"strings"

	"github.com/temirov/promptpick/internal/types"
)

const (
	folderStructureOpenTag  = "<folder-structure>"
	folderStructureCloseTag = "</folder-structure>"
	documentOpenTagFormat   = "<document path=\"%s\">"
	documentCloseTag        = "</document>"

	summaryFormat = "Selected files: %d\nEstimated tokens: %d"
)

// BuildExportDocument composes the folder structure of the selection with
// the loaded text of every selected file. Files are emitted in selection
// order; selected files whose text is not loaded yet are skipped.
func BuildExportDocument(state types.ViewerState) string {
	var builder strings.Builder
	builder.WriteString(folderStructureOpenTag + "\n")
	builder.WriteString(RenderTree(state.Root, state.SelectedPaths) + "\n")
	builder.WriteString(folderStructureCloseTag + "\n")
	builder.WriteString("\n")

	for _, path := range state.SelectedPaths.Paths() {
		content, loaded := state.FileContents.Get(path)
		if !loaded {
			continue
		}
		builder.WriteString(fmt.Sprintf(documentOpenTagFormat, path) + "\n")
		builder.WriteString(content + "\n")
		builder.WriteString(documentCloseTag + "\n")
		builder.WriteString("\n")
	}
	return builder.String()
}

// Summary reports the selection statistics of state.
func Summary(state types.ViewerState) string {
	return fmt.Sprintf(summaryFormat, state.Stats.SelectedCount, state.Stats.TotalTokens)
}
