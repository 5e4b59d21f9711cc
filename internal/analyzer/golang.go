package analyzer

import (
	"go/ast"
	"go/parser"
	"go/token"

	t "codebundle/internal/types"
)

// analyzeGo treats named types as classes and attaches methods to them by
// receiver type. Methods whose receiver type is declared elsewhere get a
// class with an empty span.
func analyzeGo(path string, src []byte) ([]t.FunctionEntry, []t.ClassNode, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, err
	}
	span := func(n ast.Node) t.Span {
		return t.Span{Start: fset.Position(n.Pos()).Line, End: fset.Position(n.End()).Line}
	}

	var (
		fns      []t.FunctionEntry
		classes  []t.ClassNode
		classIdx = map[string]int{}
	)
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			var node ast.Node = ts
			if !gd.Lparen.IsValid() {
				node = gd
			}
			classIdx[ts.Name.Name] = len(classes)
			classes = append(classes, t.ClassNode{Name: ts.Name.Name, Span: span(node)})
		}
	}

	for _, decl := range f.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if fd.Recv == nil || len(fd.Recv.List) == 0 {
			fns = append(fns, t.FunctionEntry{Name: fd.Name.Name, Kind: t.KindFunction, Span: span(fd)})
			continue
		}
		recv := receiverName(fd.Recv.List[0].Type)
		if recv == "" {
			continue
		}
		i, ok := classIdx[recv]
		if !ok {
			i = len(classes)
			classIdx[recv] = i
			classes = append(classes, t.ClassNode{Name: recv})
		}
		classes[i].Methods = append(classes[i].Methods, t.MethodEntry{
			Name: fd.Name.Name,
			Kind: t.KindMethod,
			Span: span(fd),
		})
	}
	return fns, classes, nil
}

func receiverName(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.StarExpr:
		return receiverName(x.X)
	case *ast.ParenExpr:
		return receiverName(x.X)
	case *ast.IndexExpr:
		return receiverName(x.X)
	case *ast.IndexListExpr:
		return receiverName(x.X)
	case *ast.Ident:
		return x.Name
	}
	return ""
}
