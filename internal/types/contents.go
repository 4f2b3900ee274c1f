package types

// FileContents maps a path to its extracted text and the token estimate of
// that text. Values are immutable; With and Without return modified copies.
type FileContents struct {
	entries map[string]contentEntry
}

type contentEntry struct {
	text   string
	tokens int
}

// Get returns the text stored for path.
func (contents FileContents) Get(path string) (string, bool) {
	entry, exists := contents.entries[path]
	return entry.text, exists
}

// Tokens returns the token estimate recorded with the text of path.
func (contents FileContents) Tokens(path string) (int, bool) {
	entry, exists := contents.entries[path]
	return entry.tokens, exists
}

// Len returns the number of stored texts.
func (contents FileContents) Len() int {
	return len(contents.entries)
}

// With returns a copy holding text and its token estimate for path.
func (contents FileContents) With(path string, text string, tokens int) FileContents {
	entries := make(map[string]contentEntry, len(contents.entries)+1)
	for existingPath, existingEntry := range contents.entries {
		entries[existingPath] = existingEntry
	}
	entries[path] = contentEntry{text: text, tokens: tokens}
	return FileContents{entries: entries}
}

// Without returns a copy with path removed.
func (contents FileContents) Without(path string) FileContents {
	if _, exists := contents.entries[path]; !exists {
		return contents
	}
	entries := make(map[string]contentEntry, len(contents.entries))
	for existingPath, existingEntry := range contents.entries {
		if existingPath != path {
			entries[existingPath] = existingEntry
		}
	}
	return FileContents{entries: entries}
}

// Retain keeps only the texts whose path belongs to paths.
func (contents FileContents) Retain(paths PathSet) FileContents {
	entries := make(map[string]contentEntry, paths.Len())
	for existingPath, existingEntry := range contents.entries {
		if paths.Contains(existingPath) {
			entries[existingPath] = existingEntry
		}
	}
	return FileContents{entries: entries}
}
