// Package bundle renders an export selection into a single text bundle and
// writes it to a sink.
package bundle

import (
	"fmt"
	"sort"
	"strings"

	"codebundle/internal/analyzer"
	"codebundle/internal/scan"
	t "codebundle/internal/types"
)

// DefaultName is the bundle file name written under the project root.
const DefaultName = "gpt_bundle.txt"

// Build renders every selected file in tree order and returns the normalized
// bundle text and the number of files that contributed to it. Selection
// entries for unknown files are ignored.
//
// A file without children in the tree (JavaScript, or a file the analyzer
// found nothing in) is emitted whole whenever it has an entry. Other files
// emit their selected functions, then whole classes or class headers followed
// by the selected methods, in source order.
func Build(p *scan.Project, selection map[string]t.FileSelection) (string, int) {
	var (
		parts []string
		files int
	)
	for _, f := range p.Tree.Files {
		sel, ok := selection[f.Path]
		if !ok {
			continue
		}
		a, ok := p.Analysis(f.Path)
		if !ok {
			continue
		}
		body := renderFile(a, sel)
		if len(body) == 0 {
			continue
		}
		files++
		parts = append(parts, fileHeader(f.Path))
		parts = append(parts, body...)
	}
	return Normalize(strings.Join(parts, "\n\n")), files
}

func fileHeader(path string) string {
	return "# FILE " + path
}

func renderFile(a *analyzer.Analysis, sel t.FileSelection) []string {
	f := a.File
	if f.Empty() {
		return []string{strings.Join(a.Lines, "\n")}
	}
	if len(sel.Functions) == 0 && len(sel.Classes) == 0 {
		return nil
	}

	var out []string
	wantFn := toSet(sel.Functions)
	for _, fn := range f.Functions {
		if !wantFn[fn.Name] {
			continue
		}
		out = append(out, fmt.Sprintf("# %s %s\n%s",
			strings.ToUpper(string(fn.Kind)), fn.Name,
			analyzer.ExtractLines(a.Lines, fn.Start, fn.End)))
	}
	for _, c := range f.Classes {
		methods, ok := sel.Classes[c.Name]
		if !ok {
			continue
		}
		if methods == nil || len(c.Methods) == 0 {
			out = append(out, renderWholeClass(a.Lines, c))
			continue
		}
		out = append(out, renderPartialClass(a.Lines, c, toSet(methods)))
	}
	return out
}

func renderWholeClass(lines []string, c t.ClassNode) string {
	var b strings.Builder
	b.WriteString("# CLASS " + c.Name)
	if c.Start > 0 {
		b.WriteString("\n" + analyzer.ExtractLines(lines, c.Start, c.End))
	}
	// methods declared outside the class body (Go receivers)
	for _, m := range sortedMethods(c.Methods) {
		if inside(c.Span, m.Span) {
			continue
		}
		b.WriteString("\n\n" + analyzer.ExtractLines(lines, m.Start, m.End))
	}
	return b.String()
}

func renderPartialClass(lines []string, c t.ClassNode, want map[string]bool) string {
	var b strings.Builder
	b.WriteString("# CLASS " + c.Name + " (selected methods)")
	methods := sortedMethods(c.Methods)
	if c.Start > 0 {
		headerEnd := c.End
		if first := methods[0]; inside(c.Span, first.Span) {
			headerEnd = first.Start - 1
		}
		if headerEnd >= c.Start {
			b.WriteString("\n" + analyzer.ExtractLines(lines, c.Start, headerEnd))
		}
	}
	for _, m := range methods {
		if !want[m.Name] {
			continue
		}
		fmt.Fprintf(&b, "\n\n# %s %s.%s\n%s",
			strings.ToUpper(string(m.Kind)), c.Name, m.Name,
			analyzer.ExtractLines(lines, m.Start, m.End))
	}
	return b.String()
}

func sortedMethods(in []t.MethodEntry) []t.MethodEntry {
	out := append([]t.MethodEntry(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func inside(outer, inner t.Span) bool {
	return outer.Start > 0 && inner.Start >= outer.Start && inner.End <= outer.End
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// Normalize trims trailing whitespace on every line, collapses runs of blank
// lines into one and trims the whole text.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	empty := false
	for _, ln := range lines {
		ln = strings.TrimRight(ln, " \t\r")
		if ln == "" {
			if !empty {
				out = append(out, "")
			}
			empty = true
			continue
		}
		out = append(out, ln)
		empty = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
