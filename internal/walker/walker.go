// Package walker scans a directory into a FileTreeNode snapshot.
package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"

	"github.com/temirov/promptpick/internal/types"
	"github.com/temirov/promptpick/internal/utils"
)

const (
	errorResolveRootFormat  = "resolve scan root %s: %w"
	errorRootNotDirFormat   = "scan root %s is not a directory"
	errorReadRootFormat     = "read scan root %s: %w"
	logMessageSkipEntry     = "skipping entry"
	logMessageSkipDirectory = "skipping unreadable directory"
	logMessageGitIgnore     = "ignoring unparsable .gitignore"
	logFieldPath            = "path"
)

// Scanner builds file trees honouring its Options.
type Scanner struct {
	options Options
	logger  *zap.Logger
}

// NewScanner constructs a Scanner. A nil logger discards warnings.
func NewScanner(options Options, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{options: options, logger: logger}
}

type scanContext struct {
	ctx           context.Context
	ignoreMatcher gitignore.IgnoreMatcher
	ignoredNames  map[string]struct{}
}

// Scan walks rootPath and returns its tree. Entries that cannot be read are
// logged and skipped; only an unreadable root or a cancelled context fails
// the scan.
func (scanner *Scanner) Scan(ctx context.Context, rootPath string) (*types.FileTreeNode, error) {
	absoluteRoot, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorResolveRootFormat, rootPath, absoluteError)
	}
	rootInfo, statError := os.Stat(absoluteRoot)
	if statError != nil {
		return nil, fmt.Errorf(errorReadRootFormat, absoluteRoot, statError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirFormat, absoluteRoot)
	}
	if _, readError := os.ReadDir(absoluteRoot); readError != nil {
		return nil, fmt.Errorf(errorReadRootFormat, absoluteRoot, readError)
	}

	scan := &scanContext{
		ctx:           ctx,
		ignoreMatcher: scanner.loadGitIgnore(absoluteRoot),
		ignoredNames:  make(map[string]struct{}, len(scanner.options.IgnoredDirectories)),
	}
	for _, directoryName := range scanner.options.IgnoredDirectories {
		scan.ignoredNames[directoryName] = struct{}{}
	}

	root := &types.FileTreeNode{
		Name:        filepath.Base(absoluteRoot),
		Path:        absoluteRoot,
		IsDirectory: true,
	}
	children, buildError := scanner.buildChildren(scan, absoluteRoot)
	if buildError != nil {
		return nil, buildError
	}
	root.Children = children
	return root, nil
}

func (scanner *Scanner) loadGitIgnore(absoluteRoot string) gitignore.IgnoreMatcher {
	if !scanner.options.UseGitIgnore {
		return nil
	}
	gitIgnorePath := filepath.Join(absoluteRoot, utils.GitIgnoreFileName)
	if _, statError := os.Stat(gitIgnorePath); statError != nil {
		return nil
	}
	matcher, parseError := gitignore.NewGitIgnore(gitIgnorePath)
	if parseError != nil {
		scanner.logger.Warn(logMessageGitIgnore, zap.String(logFieldPath, gitIgnorePath), zap.Error(parseError))
		return nil
	}
	return matcher
}

func (scanner *Scanner) buildChildren(scan *scanContext, directoryPath string) ([]*types.FileTreeNode, error) {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		scanner.logger.Warn(logMessageSkipDirectory, zap.String(logFieldPath, directoryPath), zap.Error(readError))
		return nil, nil
	}

	nodes := make([]*types.FileTreeNode, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if contextError := scan.ctx.Err(); contextError != nil {
			return nil, contextError
		}
		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		entryInfo, infoError := os.Stat(childPath)
		if infoError != nil {
			scanner.logger.Warn(logMessageSkipEntry, zap.String(logFieldPath, childPath), zap.Error(infoError))
			continue
		}
		isSymlink := directoryEntry.Type()&os.ModeSymlink != 0
		if entryInfo.IsDir() {
			if isSymlink || scanner.isIgnoredDirectory(scan, childPath, directoryEntry.Name()) {
				continue
			}
			grandChildren, childError := scanner.buildChildren(scan, childPath)
			if childError != nil {
				return nil, childError
			}
			nodes = append(nodes, &types.FileTreeNode{
				Name:        directoryEntry.Name(),
				Path:        childPath,
				IsDirectory: true,
				Children:    grandChildren,
			})
			continue
		}
		if !entryInfo.Mode().IsRegular() || scanner.isIgnoredFile(scan, childPath, directoryEntry.Name()) {
			continue
		}
		nodes = append(nodes, &types.FileTreeNode{
			Name:             directoryEntry.Name(),
			Path:             childPath,
			Size:             entryInfo.Size(),
			IsSelectableText: scanner.isLikelyText(childPath, directoryEntry.Name()),
		})
	}
	sortChildren(nodes)
	return nodes, nil
}

func (scanner *Scanner) isIgnoredDirectory(scan *scanContext, path string, name string) bool {
	if _, ignored := scan.ignoredNames[name]; ignored {
		return true
	}
	return scan.ignoreMatcher != nil && scan.ignoreMatcher.Match(path, true)
}

func (scanner *Scanner) isIgnoredFile(scan *scanContext, path string, name string) bool {
	if hasAnySuffix(name, scanner.options.IgnoredSuffixes) {
		return true
	}
	return scan.ignoreMatcher != nil && scan.ignoreMatcher.Match(path, false)
}

// sortChildren orders directories before files, each group by name.
func sortChildren(nodes []*types.FileTreeNode) {
	sort.SliceStable(nodes, func(left, right int) bool {
		if nodes[left].IsDirectory != nodes[right].IsDirectory {
			return nodes[left].IsDirectory
		}
		return nodes[left].Name < nodes[right].Name
	})
}

// IsCancellation reports whether err stems from a cancelled or expired scan context.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
