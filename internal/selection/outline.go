package selection

// NodeKind tags an Outline row.
type NodeKind int

const (
	NodeFile NodeKind = iota
	NodeFunction
	NodeClass
	NodeMethod
)

// Node is one selectable row of the tree in display order.
type Node struct {
	Kind  NodeKind
	Path  string
	Class string // owning class for methods, the class itself for NodeClass
	Name  string // file label for NodeFile
}

// Outline flattens the indexed tree: each file, then its functions, then each
// class followed by its methods. Collapsed duplicates appear once.
func (s *State) Outline() []Node {
	var out []Node
	for _, f := range s.files {
		out = append(out, Node{Kind: NodeFile, Path: f.path, Name: f.label})
		for _, fn := range f.functions {
			out = append(out, Node{Kind: NodeFunction, Path: f.path, Name: fn.name})
		}
		for _, c := range f.classes {
			out = append(out, Node{Kind: NodeClass, Path: f.path, Class: c.name, Name: c.name})
			for _, m := range c.methods {
				out = append(out, Node{Kind: NodeMethod, Path: f.path, Class: c.name, Name: m.name})
			}
		}
	}
	return out
}

// Checked reports the checkbox value shown for n. A file is checked when it
// is Full; a class row is its own box, independent of its methods.
func (s *State) Checked(n Node) (bool, error) {
	switch n.Kind {
	case NodeFile:
		st, err := s.FileState(n.Path)
		return st == Full, err
	case NodeClass:
		return s.ClassChecked(n.Path, n.Class)
	case NodeFunction:
		return s.FunctionChecked(n.Path, n.Name)
	default:
		return s.MethodChecked(n.Path, n.Class, n.Name)
	}
}

// Toggle flips n the way a checkbox click does. A partial file becomes fully
// checked; a class click sets the class and all its methods to the inverse of
// its own box.
func (s *State) Toggle(n Node) error {
	on, err := s.Checked(n)
	if err != nil {
		return err
	}
	switch n.Kind {
	case NodeFile:
		return s.SetFile(n.Path, !on)
	case NodeClass:
		return s.SetClass(n.Path, n.Class, !on)
	case NodeFunction:
		return s.SetFunction(n.Path, n.Name, !on)
	default:
		return s.SetMethod(n.Path, n.Class, n.Name, !on)
	}
}
