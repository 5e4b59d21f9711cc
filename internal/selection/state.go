// Package selection holds the tri-state checkbox model for a source tree:
// cascading checks, bottom-up recompute, label filtering and the export
// payload. A State is owned by a single event loop and is not safe for
// concurrent use.
package selection

import (
	"fmt"
	"strings"

	t "codebundle/internal/types"
)

// TriState is the derived status of a container node.
type TriState int

const (
	Unselected TriState = iota
	Partial
	Full
)

func (s TriState) String() string {
	switch s {
	case Partial:
		return "partial"
	case Full:
		return "full"
	default:
		return "unselected"
	}
}

type leaf struct {
	name    string
	checked bool
}

type classEntry struct {
	name      string
	checked   bool
	methods   []leaf
	methodIdx map[string]int
	state     TriState
}

type fileEntry struct {
	path  string
	label string
	// checked is only consulted for files without children; otherwise the
	// file state is always derived.
	checked   bool
	functions []leaf
	fnIdx     map[string]int
	classes   []*classEntry
	classIdx  map[string]int
	state     TriState
	// lowered labels of the file and every descendant, for the filter.
	labels []string
}

// State is the selection model for one loaded tree.
type State struct {
	files   []*fileEntry
	byPath  map[string]*fileEntry
	visible Visibility
}

// Stats summarizes the current selection.
type Stats struct {
	Files int // files whose state is Full
	Items int // checked functions, class boxes and methods
}

// New indexes files. Repeated function, class or method names under one owner
// collapse into one entry at the first occurrence; a class seen twice keeps
// the union of its methods. Two files with the same path are rejected.
func New(files []t.FileNode) (*State, error) {
	s := &State{
		files:  make([]*fileEntry, 0, len(files)),
		byPath: make(map[string]*fileEntry, len(files)),
	}
	for _, f := range files {
		if _, dup := s.byPath[f.Path]; dup {
			return nil, fmt.Errorf("%w: file %q", ErrDuplicateNode, f.Path)
		}
		fe := &fileEntry{
			path:     f.Path,
			label:    f.Label(),
			fnIdx:    make(map[string]int, len(f.Functions)),
			classIdx: make(map[string]int, len(f.Classes)),
		}
		fe.labels = append(fe.labels, strings.ToLower(fe.label))
		for _, fn := range f.Functions {
			if _, ok := fe.fnIdx[fn.Name]; ok {
				continue
			}
			fe.fnIdx[fn.Name] = len(fe.functions)
			fe.functions = append(fe.functions, leaf{name: fn.Name})
			fe.labels = append(fe.labels, strings.ToLower(fn.Name))
		}
		for _, c := range f.Classes {
			ce, ok := fe.lookupClass(c.Name)
			if !ok {
				ce = &classEntry{name: c.Name, methodIdx: make(map[string]int, len(c.Methods))}
				fe.classIdx[c.Name] = len(fe.classes)
				fe.classes = append(fe.classes, ce)
				fe.labels = append(fe.labels, strings.ToLower(c.Name))
			}
			for _, m := range c.Methods {
				if _, ok := ce.methodIdx[m.Name]; ok {
					continue
				}
				ce.methodIdx[m.Name] = len(ce.methods)
				ce.methods = append(ce.methods, leaf{name: m.Name})
				fe.labels = append(fe.labels, strings.ToLower(m.Name))
			}
		}
		s.files = append(s.files, fe)
		s.byPath[f.Path] = fe
	}
	s.RecomputeAll()
	return s, nil
}

func (f *fileEntry) lookupClass(name string) (*classEntry, bool) {
	i, ok := f.classIdx[name]
	if !ok {
		return nil, false
	}
	return f.classes[i], true
}

func (f *fileEntry) empty() bool {
	return len(f.functions) == 0 && len(f.classes) == 0
}

func (s *State) file(path string) (*fileEntry, error) {
	f, ok := s.byPath[path]
	if !ok {
		return nil, &NotFoundError{Kind: "file", Path: path}
	}
	return f, nil
}

func (s *State) class(path, class string) (*fileEntry, *classEntry, error) {
	f, err := s.file(path)
	if err != nil {
		return nil, nil, err
	}
	c, ok := f.lookupClass(class)
	if !ok {
		return nil, nil, &NotFoundError{Kind: "class", Path: path, Class: class}
	}
	return f, c, nil
}

// Paths returns file paths in tree order.
func (s *State) Paths() []string {
	out := make([]string, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f.path)
	}
	return out
}

// SetFile checks or unchecks every function, class box and method in the file.
func (s *State) SetFile(path string, checked bool) error {
	f, err := s.file(path)
	if err != nil {
		return err
	}
	f.setAll(checked)
	f.recompute()
	return nil
}

func (f *fileEntry) setAll(checked bool) {
	if f.empty() {
		f.checked = checked
		return
	}
	for i := range f.functions {
		f.functions[i].checked = checked
	}
	for _, c := range f.classes {
		c.setAll(checked)
	}
}

func (c *classEntry) setAll(checked bool) {
	c.checked = checked
	for i := range c.methods {
		c.methods[i].checked = checked
	}
}

// SetClass sets the class box and forces all of its methods to the same value.
func (s *State) SetClass(path, class string, checked bool) error {
	f, c, err := s.class(path, class)
	if err != nil {
		return err
	}
	c.setAll(checked)
	f.recompute()
	return nil
}

func (s *State) SetFunction(path, name string, checked bool) error {
	f, err := s.file(path)
	if err != nil {
		return err
	}
	i, ok := f.fnIdx[name]
	if !ok {
		return &NotFoundError{Kind: "function", Path: path, Name: name}
	}
	f.functions[i].checked = checked
	f.recompute()
	return nil
}

// SetMethod toggles one method. The class box is left as is.
func (s *State) SetMethod(path, class, name string, checked bool) error {
	f, c, err := s.class(path, class)
	if err != nil {
		return err
	}
	i, ok := c.methodIdx[name]
	if !ok {
		return &NotFoundError{Kind: "method", Path: path, Class: class, Name: name}
	}
	c.methods[i].checked = checked
	f.recompute()
	return nil
}

// SetAll is the bulk select/deselect over the whole tree.
func (s *State) SetAll(checked bool) {
	for _, f := range s.files {
		f.setAll(checked)
		f.recompute()
	}
}

// Recompute rederives the tri-state of the file and its classes.
func (s *State) Recompute(path string) error {
	f, err := s.file(path)
	if err != nil {
		return err
	}
	f.recompute()
	return nil
}

func (s *State) RecomputeAll() {
	for _, f := range s.files {
		f.recompute()
	}
}

func (f *fileEntry) recompute() {
	if f.empty() {
		f.state = Unselected
		if f.checked {
			f.state = Full
		}
		return
	}
	total, checked := 0, 0
	for _, fn := range f.functions {
		total++
		if fn.checked {
			checked++
		}
	}
	for _, c := range f.classes {
		ct, cc := c.recompute()
		total += ct
		checked += cc
	}
	f.state = triState(checked, total)
}

func (c *classEntry) recompute() (total, checked int) {
	total = 1 + len(c.methods)
	if c.checked {
		checked++
	}
	for _, m := range c.methods {
		if m.checked {
			checked++
		}
	}
	c.state = triState(checked, total)
	return total, checked
}

func triState(checked, total int) TriState {
	switch {
	case checked == 0:
		return Unselected
	case checked == total:
		return Full
	default:
		return Partial
	}
}

func (s *State) FileState(path string) (TriState, error) {
	f, err := s.file(path)
	if err != nil {
		return Unselected, err
	}
	return f.state, nil
}

// ClassState counts the class box together with its methods.
func (s *State) ClassState(path, class string) (TriState, error) {
	_, c, err := s.class(path, class)
	if err != nil {
		return Unselected, err
	}
	return c.state, nil
}

func (s *State) ClassChecked(path, class string) (bool, error) {
	_, c, err := s.class(path, class)
	if err != nil {
		return false, err
	}
	return c.checked, nil
}

func (s *State) FunctionChecked(path, name string) (bool, error) {
	f, err := s.file(path)
	if err != nil {
		return false, err
	}
	i, ok := f.fnIdx[name]
	if !ok {
		return false, &NotFoundError{Kind: "function", Path: path, Name: name}
	}
	return f.functions[i].checked, nil
}

func (s *State) MethodChecked(path, class, name string) (bool, error) {
	_, c, err := s.class(path, class)
	if err != nil {
		return false, err
	}
	i, ok := c.methodIdx[name]
	if !ok {
		return false, &NotFoundError{Kind: "method", Path: path, Class: class, Name: name}
	}
	return c.methods[i].checked, nil
}

func (s *State) Stats() Stats {
	var st Stats
	for _, f := range s.files {
		if f.state == Full {
			st.Files++
		}
		for _, fn := range f.functions {
			if fn.checked {
				st.Items++
			}
		}
		for _, c := range f.classes {
			if c.checked {
				st.Items++
			}
			for _, m := range c.methods {
				if m.checked {
					st.Items++
				}
			}
		}
	}
	return st
}
