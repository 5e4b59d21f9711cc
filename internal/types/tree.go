package types

// Tree model ---------------------------------------------------------------------

// Language identifies the analyzer that produced a FileNode.
type Language string

const (
	LangPython     Language = "python"
	LangGo         Language = "go"
	LangJavaScript Language = "javascript"
)

// ItemKind is the source-level kind of a tree entry.
type ItemKind string

const (
	KindFunction      ItemKind = "function"
	KindAsyncFunction ItemKind = "async_function"
	KindClass         ItemKind = "class"
	KindMethod        ItemKind = "method"
	KindAsyncMethod   ItemKind = "async_method"
)

// Span is a 1-based inclusive line range.
type Span struct {
	Start int `json:"lineno_start"`
	End   int `json:"lineno_end"`
}

type FunctionEntry struct {
	Name string   `json:"name"`
	Kind ItemKind `json:"type"`
	Span
}

type MethodEntry struct {
	Name string   `json:"name"`
	Kind ItemKind `json:"type"`
	Span
}

type ClassNode struct {
	Name    string        `json:"name"`
	Methods []MethodEntry `json:"methods"`
	Span
}

// FileNode is one analyzed source file. Path is absolute and unique per tree.
type FileNode struct {
	Path      string          `json:"path"`
	Rel       string          `json:"rel"`
	Language  Language        `json:"language"`
	Functions []FunctionEntry `json:"functions"`
	Classes   []ClassNode     `json:"classes"`
}

// Label is the display text used for filtering and rendering.
func (f FileNode) Label() string {
	if f.Rel != "" {
		return f.Rel
	}
	return f.Path
}

// Empty reports whether the file has no selectable children.
func (f FileNode) Empty() bool {
	return len(f.Functions) == 0 && len(f.Classes) == 0
}

// Tree is the scan result for one root, files sorted by relative path.
type Tree struct {
	Root  string     `json:"root"`
	Files []FileNode `json:"files"`
}
