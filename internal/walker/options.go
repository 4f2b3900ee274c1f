package walker

// Options configures which entries a Scanner omits and how files are
// classified.
type Options struct {
	// IgnoredDirectories lists directory names omitted at any depth.
	IgnoredDirectories []string
	// IgnoredSuffixes lists case-insensitive file name suffixes omitted at any depth.
	IgnoredSuffixes []string
	// TextSuffixes lists file name suffixes classified as text without sampling.
	TextSuffixes []string
	// RichDocumentSuffixes lists document formats that have a text extractor.
	RichDocumentSuffixes []string
	// UseGitIgnore honours a .gitignore file found at the scan root.
	UseGitIgnore bool
}

// DefaultIgnoredDirectories are version-control, dependency-cache and editor directories.
var DefaultIgnoredDirectories = []string{"node_modules", "venv", ".git", "__pycache__", ".idea", ".vscode"}

// DefaultIgnoredSuffixes are OS metadata files, secrets and common binary or media formats.
var DefaultIgnoredSuffixes = []string{
	".DS_Store", "Thumbs.db", ".env", ".pyc",
	".jpg", ".jpeg", ".png", ".gif", ".mp4",
	".exe", ".dll", ".bin",
}

// DefaultTextSuffixes are formats known to hold plain text.
var DefaultTextSuffixes = []string{
	".txt", ".md", ".json", ".js", ".ts",
	".css", ".html", ".xml", ".yaml", ".yml",
	".kt", ".kts", ".java", ".py", ".rb",
	".go", ".mod", ".sum", ".toml", ".sh", ".sql",
}

// DefaultRichDocumentSuffixes are the formats handled by the extract package.
var DefaultRichDocumentSuffixes = []string{".pdf", ".xlsx"}

// DefaultOptions returns the built-in ignore lists and classification suffixes.
func DefaultOptions() Options {
	return Options{
		IgnoredDirectories:   append([]string(nil), DefaultIgnoredDirectories...),
		IgnoredSuffixes:      append([]string(nil), DefaultIgnoredSuffixes...),
		TextSuffixes:         append([]string(nil), DefaultTextSuffixes...),
		RichDocumentSuffixes: append([]string(nil), DefaultRichDocumentSuffixes...),
		UseGitIgnore:         true,
	}
}
