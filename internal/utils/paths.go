package utils

import (
	"fmt"
	"path/filepath"
)

const (
	resolveRootFormat = "resolve %s: %w"
	relativeSelfPath  = "."
)

// AbsolutePath returns the cleaned absolute form of path.
func AbsolutePath(path string) (string, error) {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return "", fmt.Errorf(resolveRootFormat, path, absoluteError)
	}
	return filepath.Clean(absolutePath), nil
}

// ResolveAgainstRoot interprets argument as absolute when it already is and
// relative to root otherwise.
func ResolveAgainstRoot(root string, argument string) string {
	if filepath.IsAbs(argument) {
		return filepath.Clean(argument)
	}
	return filepath.Join(root, argument)
}

// RelativePathOrSelf calculates the slash separated path of fullPath relative
// to root. It returns the cleaned fullPath when no relative form exists and
// "." when both name the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)
	if cleanPath == cleanRoot {
		return relativeSelfPath
	}
	relativePath, relativeError := filepath.Rel(cleanRoot, cleanPath)
	if relativeError != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}
