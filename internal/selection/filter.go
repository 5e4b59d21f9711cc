package selection

import "strings"

// Visibility maps file path to whether the file is shown.
type Visibility map[string]bool

// ApplyFilter recomputes visibility from scratch. A file is visible when the
// trimmed query is empty or is a case-insensitive substring of the file label
// or of any function, class or method name beneath it. Selection is untouched.
func (s *State) ApplyFilter(query string) Visibility {
	q := strings.ToLower(strings.TrimSpace(query))
	vis := make(Visibility, len(s.files))
	for _, f := range s.files {
		vis[f.path] = q == "" || f.matches(q)
	}
	s.visible = vis
	return vis
}

func (f *fileEntry) matches(q string) bool {
	for _, l := range f.labels {
		if strings.Contains(l, q) {
			return true
		}
	}
	return false
}

// Visible reports the result of the last ApplyFilter; files are visible
// before any filter has been applied.
func (s *State) Visible(path string) bool {
	if s.visible == nil {
		return true
	}
	v, ok := s.visible[path]
	return !ok || v
}
