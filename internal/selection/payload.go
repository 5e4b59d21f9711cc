package selection

import t "codebundle/internal/types"

// Payload reduces the current selection into an export request in one pass.
//
// Per class: checked methods always produce a method list, whether or not the
// class box is checked; a checked box with no checked methods produces nil
// (whole class). A file appears when its state is Full or when it has any
// checked function, class box or method. A checked file without children is
// emitted with empty lists.
func (s *State) Payload(root string) t.ExportRequest {
	req := t.ExportRequest{
		Root:      root,
		Selection: make(map[string]t.FileSelection),
	}
	for _, f := range s.files {
		sel := t.FileSelection{
			Functions: []string{},
			Classes:   map[string][]string{},
		}
		for _, fn := range f.functions {
			if fn.checked {
				sel.Functions = append(sel.Functions, fn.name)
			}
		}
		for _, c := range f.classes {
			var methods []string
			for _, m := range c.methods {
				if m.checked {
					methods = append(methods, m.name)
				}
			}
			switch {
			case len(methods) > 0:
				sel.Classes[c.name] = methods
			case c.checked:
				sel.Classes[c.name] = nil
			}
		}
		if f.state == Full || len(sel.Functions) > 0 || len(sel.Classes) > 0 {
			req.Selection[f.path] = sel
		}
	}
	return req
}
