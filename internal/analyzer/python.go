package analyzer

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	t "codebundle/internal/types"
)

// analyzePython lists module-level defs and classes, plus the defs directly in
// each class body. Nested defs stay inside their parent's range. Spans start
// at the def line, not the first decorator.
func analyzePython(src []byte) ([]t.FunctionEntry, []t.ClassNode, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, nil, fmt.Errorf("python syntax error near line %d", errorLine(root))
	}

	var (
		fns     []t.FunctionEntry
		classes []t.ClassNode
	)
	for i := 0; i < int(root.NamedChildCount()); i++ {
		def := unwrapDecorated(root.NamedChild(i))
		switch def.Type() {
		case "function_definition":
			kind := t.KindFunction
			if isAsync(def) {
				kind = t.KindAsyncFunction
			}
			fns = append(fns, t.FunctionEntry{Name: nodeName(def, src), Kind: kind, Span: pySpan(def)})
		case "class_definition":
			classes = append(classes, t.ClassNode{
				Name:    nodeName(def, src),
				Span:    pySpan(def),
				Methods: pyMethods(def, src),
			})
		}
	}
	return fns, classes, nil
}

func pyMethods(class *sitter.Node, src []byte) []t.MethodEntry {
	body := class.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []t.MethodEntry
	for i := 0; i < int(body.NamedChildCount()); i++ {
		def := unwrapDecorated(body.NamedChild(i))
		if def.Type() != "function_definition" {
			continue
		}
		kind := t.KindMethod
		if isAsync(def) {
			kind = t.KindAsyncMethod
		}
		out = append(out, t.MethodEntry{Name: nodeName(def, src), Kind: kind, Span: pySpan(def)})
	}
	return out
}

func unwrapDecorated(n *sitter.Node) *sitter.Node {
	if n.Type() == "decorated_definition" {
		if def := n.ChildByFieldName("definition"); def != nil {
			return def
		}
	}
	return n
}

func isAsync(def *sitter.Node) bool {
	return def.ChildCount() > 0 && def.Child(0).Type() == "async"
}

func nodeName(def *sitter.Node, src []byte) string {
	if name := def.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	return ""
}

func pySpan(def *sitter.Node) t.Span {
	return t.Span{Start: int(def.StartPoint().Row) + 1, End: lastCodeLine(def)}
}

// lastCodeLine follows the last real token under n. Blocks can end on the
// next statement's line and trailing comments belong to no statement, so the
// node's own end point is not used.
func lastCodeLine(n *sitter.Node) int {
	for {
		var next *sitter.Node
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			c := n.Child(i)
			if c.Type() == "comment" || c.StartByte() == c.EndByte() {
				continue
			}
			next = c
			break
		}
		if next == nil {
			break
		}
		n = next
	}
	end := n.EndPoint()
	if end.Column == 0 && end.Row > n.StartPoint().Row {
		return int(end.Row)
	}
	return int(end.Row) + 1
}

func errorLine(n *sitter.Node) int {
	if n.IsError() || n.IsMissing() {
		return int(n.StartPoint().Row) + 1
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.HasError() {
			return errorLine(c)
		}
	}
	return int(n.StartPoint().Row) + 1
}
