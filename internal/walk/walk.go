// Package walk discovers source files under a project root, skipping
// build output, dependency, and version-control directories plus anything
// the root's .gitignore excludes.
package walk

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// defaultSkipDirs are never descended into regardless of gitignore.
var defaultSkipDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	".idea":        true,
	"target":       true,
	"build":        true,
	"out":          true,
	"bin":          true,
	"node_modules": true,
	"vendor":       true,
}

// Walker walks one project root.
type Walker struct {
	root     string
	gi       *ignore.GitIgnore
	skipDirs map[string]bool
}

// New creates a Walker for root. extraSkips extends the default directory
// exclusions.
func New(root string, extraSkips []string) *Walker {
	skips := make(map[string]bool, len(defaultSkipDirs)+len(extraSkips))
	for d := range defaultSkipDirs {
		skips[d] = true
	}
	for _, d := range extraSkips {
		skips[d] = true
	}
	return &Walker{
		root:     root,
		gi:       loadGitignore(root),
		skipDirs: skips,
	}
}

// Sources calls fn for every regular file under the root whose name ends
// with ext (e.g. ".java" or ".xml"). Unreadable entries are skipped; fn
// returning filepath.SkipAll stops the walk.
func (w *Walker) Sources(ext string, fn func(path string) error) error {
	return filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			name := info.Name()
			if path != w.root && (w.skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			if w.ignored(path, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(info.Name(), ext) {
			return nil
		}
		if w.ignored(path, false) {
			return nil
		}
		return fn(path)
	})
}

func (w *Walker) ignored(path string, isDir bool) bool {
	if w.gi == nil {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return w.gi.MatchesPath(rel)
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
