// Package analyzer extracts top-level functions and classes (with their
// methods) from source files, with 1-based inclusive line ranges.
package analyzer

import (
	"path/filepath"
	"strings"

	t "codebundle/internal/types"
)

// Analysis is one analyzed file plus the source lines the bundle writer needs.
type Analysis struct {
	File  t.FileNode
	Lines []string
}

// LanguageOf maps a file extension to an analyzer language.
func LanguageOf(path string) (t.Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return t.LangPython, true
	case ".go":
		return t.LangGo, true
	case ".js", ".mjs", ".cjs":
		return t.LangJavaScript, true
	}
	return "", false
}

// Analyze dispatches on the file extension. It returns nil, nil for files no
// analyzer handles and for Python or Go files without any top-level items.
func Analyze(path string, src []byte) (*Analysis, error) {
	lang, ok := LanguageOf(path)
	if !ok {
		return nil, nil
	}
	lines := splitLines(src)
	node := t.FileNode{Path: path, Language: lang}

	switch lang {
	case t.LangPython:
		fns, classes, err := analyzePython(src)
		if err != nil {
			return nil, err
		}
		node.Functions, node.Classes = fns, classes
	case t.LangGo:
		fns, classes, err := analyzeGo(path, src)
		if err != nil {
			return nil, err
		}
		node.Functions, node.Classes = fns, classes
	case t.LangJavaScript:
		// exported whole; no children
		return &Analysis{File: node, Lines: lines}, nil
	}
	if node.Empty() {
		return nil, nil
	}
	return &Analysis{File: node, Lines: lines}, nil
}

func splitLines(src []byte) []string {
	s := strings.ReplaceAll(string(src), "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// ExtractLines returns lines start..end (1-based, inclusive), clamped.
func ExtractLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end < start {
		end = start
	}
	if start > len(lines) {
		return ""
	}
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start-1:end], "\n")
}
