// Package scan walks a project root and analyzes every supported source file
// into a types.Tree.
package scan

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"codebundle/internal/analyzer"
	"codebundle/internal/safeio"
	t "codebundle/internal/types"
)

// FileVisit carries per-entry metadata to user callbacks.
type FileVisit struct {
	// Root-relative path using forward slashes (e.g., "pkg/app.py").
	Path string
	// Absolute filesystem path.
	AbsPath string
	IsDir   bool
	// Lowercased extension; empty for dirs or no-ext files.
	Ext string
}

// VisitFunc is an optional callback invoked for every visited entry.
type VisitFunc func(f FileVisit)

type Options struct {
	// IgnoreDirs are directory base names that are never entered.
	IgnoreDirs []string
	// MaxDepth limits recursion (0 = unlimited). Depth 1 is the root itself.
	MaxDepth int
	// Visit is called for every entry that is not skipped.
	Visit VisitFunc
}

// DefaultIgnoreDirs are skipped in addition to any dot-directory.
func DefaultIgnoreDirs() []string {
	return []string{
		".git", ".venv", "venv", "__pycache__", ".mypy_cache", ".pytest_cache",
		"node_modules", "dist", "build", ".idea", ".vscode",
	}
}

// Project is the scan result: the display tree plus per-file analyses.
type Project struct {
	Tree     t.Tree
	analyses map[string]*analyzer.Analysis
}

// Analysis returns the analysis for an absolute file path.
func (p *Project) Analysis(path string) (*analyzer.Analysis, bool) {
	if p == nil {
		return nil, false
	}
	a, ok := p.analyses[path]
	return a, ok
}

// Bytes is a rough in-memory size used for cache accounting.
func (p *Project) Bytes() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, a := range p.analyses {
		for _, l := range a.Lines {
			n += len(l) + 1
		}
	}
	return n
}

// Scan analyzes every supported file under root. Unreadable entries and files
// that fail to parse are logged and skipped; only context cancellation and an
// invalid root abort the walk.
func Scan(ctx context.Context, root string, opts Options) (*Project, error) {
	rfs, err := safeio.Open(root)
	if err != nil {
		return nil, err
	}
	ignore := make(map[string]bool, len(opts.IgnoreDirs))
	for _, d := range opts.IgnoreDirs {
		if d = strings.TrimSpace(d); d != "" {
			ignore[d] = true
		}
	}

	absRoot := rfs.Root()
	p := &Project{
		Tree:     t.Tree{Root: absRoot},
		analyses: map[string]*analyzer.Analysis{},
	}
	err = rfs.WalkDir(func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Printf("scan: skip %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(absRoot, path)
		rel = filepath.ToSlash(rel)
		if d.IsDir() && path != absRoot {
			name := d.Name()
			if ignore[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 && strings.Count(rel, "/")+1 >= opts.MaxDepth {
				return filepath.SkipDir
			}
		}
		if path == absRoot {
			return nil
		}
		ext := ""
		if !d.IsDir() {
			ext = strings.ToLower(filepath.Ext(rel))
		}
		if opts.Visit != nil {
			opts.Visit(FileVisit{Path: rel, AbsPath: path, IsDir: d.IsDir(), Ext: ext})
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if _, ok := analyzer.LanguageOf(path); !ok {
			return nil
		}
		src, err := rfs.ReadFile(path)
		if err != nil {
			log.Printf("scan: read %s: %v", rel, err)
			return nil
		}
		a, err := analyzer.Analyze(path, src)
		if err != nil {
			log.Printf("scan: analyze %s: %v", rel, err)
			return nil
		}
		if a == nil {
			return nil
		}
		a.File.Rel = rel
		p.analyses[path] = a
		p.Tree.Files = append(p.Tree.Files, a.File)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(p.Tree.Files, func(i, j int) bool {
		return strings.ToLower(p.Tree.Files[i].Rel) < strings.ToLower(p.Tree.Files[j].Rel)
	})
	return p, nil
}
