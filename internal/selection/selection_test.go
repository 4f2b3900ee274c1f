package selection_test

import (
	"reflect"
	"testing"

	"github.com/temirov/promptpick/internal/selection"
	"github.com/temirov/promptpick/internal/types"
)

func sampleTree() *types.FileTreeNode {
	return &types.FileTreeNode{
		Name: "root", Path: "/root", IsDirectory: true,
		Children: []*types.FileTreeNode{
			{
				Name: "dir", Path: "/root/dir", IsDirectory: true,
				Children: []*types.FileTreeNode{
					{Name: "b.txt", Path: "/root/dir/b.txt", IsSelectableText: true, Size: 3},
					{Name: "image.bin", Path: "/root/dir/image.bin", Size: 10},
				},
			},
			{Name: "empty", Path: "/root/empty", IsDirectory: true},
			{Name: "a.txt", Path: "/root/a.txt", IsSelectableText: true, Size: 5},
		},
	}
}

func TestAllDirectoryPaths(t *testing.T) {
	paths := selection.AllDirectoryPaths(sampleTree()).Paths()
	expected := []string{"/root", "/root/dir", "/root/empty"}
	if !reflect.DeepEqual(paths, expected) {
		t.Fatalf("expected %v, got %v", expected, paths)
	}
}

func TestAllSelectablePathsExcludesDirectoriesAndBinaries(t *testing.T) {
	root := sampleTree()
	paths := selection.AllSelectablePaths(root)
	expected := []string{"/root/dir/b.txt", "/root/a.txt"}
	if !reflect.DeepEqual(paths.Paths(), expected) {
		t.Fatalf("expected %v, got %v", expected, paths.Paths())
	}
	for _, path := range paths.Paths() {
		node := selection.FindNode(root, path)
		if node == nil || node.IsDirectory || !node.IsSelectableText {
			t.Fatalf("path %s is not a selectable file", path)
		}
	}
}

func TestDerivationsWithoutRootAreEmpty(t *testing.T) {
	if selection.AllDirectoryPaths(nil).Len() != 0 {
		t.Fatalf("expected no directories")
	}
	if selection.AllSelectablePaths(nil).Len() != 0 {
		t.Fatalf("expected no selectable paths")
	}
	state := selection.SelectAll(types.ViewerState{})
	if state.SelectedPaths.Len() != 0 {
		t.Fatalf("expected empty selection")
	}
	state = selection.ExpandAll(state)
	if state.ExpandedPaths.Len() != 0 {
		t.Fatalf("expected empty expansion")
	}
}

func TestSelectAllThenDeselectAllIsRepeatable(t *testing.T) {
	state := types.ViewerState{Root: sampleTree()}
	for iteration := 0; iteration < 3; iteration++ {
		state = selection.SelectAll(state)
		state.Stats = selection.DeriveStats(state)
		if state.Stats.SelectedCount != 2 {
			t.Fatalf("iteration %d: expected 2 selected, got %d", iteration, state.Stats.SelectedCount)
		}
		state = selection.DeselectAll(state)
		state.Stats = selection.DeriveStats(state)
		if state.SelectedPaths.Len() != 0 || state.Stats.SelectedCount != 0 {
			t.Fatalf("iteration %d: expected empty selection, got %v", iteration, state.SelectedPaths.Paths())
		}
	}
}

func TestToggleSelectionDropsContentOfDeselectedPath(t *testing.T) {
	state := types.ViewerState{Root: sampleTree()}
	state = selection.ToggleSelection("/root/a.txt")(state)
	state = selection.StoreContent("/root/a.txt", "hello")(state)
	if _, loaded := state.FileContents.Get("/root/a.txt"); !loaded {
		t.Fatalf("expected content to be stored")
	}
	state = selection.ToggleSelection("/root/a.txt")(state)
	if state.FileContents.Len() != 0 {
		t.Fatalf("expected content to be dropped after deselection")
	}
}

func TestStoreContentIgnoresUnselectedPath(t *testing.T) {
	state := selection.StoreContent("/root/a.txt", "hello")(types.ViewerState{Root: sampleTree()})
	if state.FileContents.Len() != 0 {
		t.Fatalf("expected no content for an unselected path")
	}
}

func TestToggleExpansionAndCollapseAll(t *testing.T) {
	state := selection.ToggleExpansion("/root/dir")(types.ViewerState{Root: sampleTree()})
	if !state.ExpandedPaths.Contains("/root/dir") {
		t.Fatalf("expected /root/dir expanded")
	}
	state = selection.ExpandAll(state)
	if state.ExpandedPaths.Len() != 3 {
		t.Fatalf("expected 3 expanded directories, got %d", state.ExpandedPaths.Len())
	}
	state = selection.CollapseAll(state)
	if state.ExpandedPaths.Len() != 0 {
		t.Fatalf("expected no expanded directories")
	}
}

func TestRestoreSavedKeepsOnlyKnownPaths(t *testing.T) {
	saved := types.SavedState{
		SelectedPaths: []string{"/root/a.txt", "/root/dir/image.bin", "/elsewhere/x.txt", "/root/dir"},
		ExpandedNodes: []string{"/root/dir", "/root/a.txt", "/gone"},
	}
	state := selection.RestoreSaved(saved)(types.ViewerState{Root: sampleTree()})
	if !reflect.DeepEqual(state.SelectedPaths.Paths(), []string{"/root/a.txt"}) {
		t.Fatalf("unexpected selection: %v", state.SelectedPaths.Paths())
	}
	if !reflect.DeepEqual(state.ExpandedPaths.Paths(), []string{"/root/dir"}) {
		t.Fatalf("unexpected expansion: %v", state.ExpandedPaths.Paths())
	}
}

func TestReplaceRootAndClearResetState(t *testing.T) {
	state := selection.SelectAll(types.ViewerState{Root: sampleTree()})
	replacement := &types.FileTreeNode{Name: "other", Path: "/other", IsDirectory: true}
	state = selection.ReplaceRoot(replacement)(state)
	if state.Root != replacement || state.SelectedPaths.Len() != 0 {
		t.Fatalf("expected fresh state with new root")
	}
	state = selection.Clear(state)
	if state.Root != nil {
		t.Fatalf("expected nil root after clear")
	}
}

func TestDeriveStatsCountsOnlyLoadedSelectedContent(t *testing.T) {
	state := types.ViewerState{Root: sampleTree()}
	state = selection.SelectAll(state)
	state = selection.StoreContent("/root/a.txt", "abcde")(state)
	stats := selection.DeriveStats(state)
	if stats.SelectedCount != 2 {
		t.Fatalf("expected 2 selected, got %d", stats.SelectedCount)
	}
	if stats.TotalTokens != 2 {
		t.Fatalf("expected 2 tokens, got %d", stats.TotalTokens)
	}
	missing := selection.MissingContents(state)
	if !reflect.DeepEqual(missing, []string{"/root/dir/b.txt"}) {
		t.Fatalf("unexpected missing contents: %v", missing)
	}
}
