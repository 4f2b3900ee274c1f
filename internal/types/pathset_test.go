package types

import (
	"reflect"
	"testing"
)

func TestPathSetPreservesInsertionOrder(t *testing.T) {
	set := NewPathSet("/b", "/a", "/b").With("/c").Without("/a").With("/a")
	expected := []string{"/b", "/c", "/a"}
	if !reflect.DeepEqual(set.Paths(), expected) {
		t.Fatalf("expected %v, got %v", expected, set.Paths())
	}
}

func TestPathSetToggleIsInvolution(t *testing.T) {
	testCases := []struct {
		name string
		set  PathSet
		path string
	}{
		{name: "empty_set", set: PathSet{}, path: "/a"},
		{name: "absent_path", set: NewPathSet("/x", "/y"), path: "/a"},
		{name: "present_path", set: NewPathSet("/a", "/x"), path: "/a"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			toggledTwice := testCase.set.Toggle(testCase.path).Toggle(testCase.path)
			if !toggledTwice.SameMembers(testCase.set) {
				t.Fatalf("expected %v, got %v", testCase.set.Paths(), toggledTwice.Paths())
			}
		})
	}
}

func TestPathSetOperationsDoNotMutateReceiver(t *testing.T) {
	original := NewPathSet("/a")
	_ = original.With("/b")
	_ = original.Without("/a")
	if original.Len() != 1 || !original.Contains("/a") {
		t.Fatalf("receiver mutated: %v", original.Paths())
	}
}

func TestFileContentsCopyOnWrite(t *testing.T) {
	original := FileContents{}.With("/a", "alpha", 2)
	extended := original.With("/b", "beta", 1)
	if original.Len() != 1 {
		t.Fatalf("expected original to keep one entry, got %d", original.Len())
	}
	if text, ok := extended.Get("/b"); !ok || text != "beta" {
		t.Fatalf("expected beta, got %q", text)
	}
	if tokens, ok := extended.Tokens("/b"); !ok || tokens != 1 {
		t.Fatalf("expected 1 cached token for /b, got %d", tokens)
	}
	retained := extended.Retain(NewPathSet("/b"))
	if _, ok := retained.Get("/a"); ok {
		t.Fatalf("expected /a to be dropped")
	}
}

func TestSavedStateOfUsesNonNilLists(t *testing.T) {
	saved := SavedStateOf(ViewerState{})
	if saved.SelectedPaths == nil || saved.ExpandedNodes == nil {
		t.Fatalf("expected empty non-nil lists, got %#v", saved)
	}
}
