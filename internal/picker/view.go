package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"codebundle/internal/selection"
)

var (
	colorAccent = lipgloss.Color("#89b4fa")
	colorMuted  = lipgloss.Color("#6c7086")
	colorOK     = lipgloss.Color("#a6e3a1")
	colorWarn   = lipgloss.Color("#f9e2af")
	colorErr    = lipgloss.Color("#f38ba8")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	dimStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	fileStyle    = lipgloss.NewStyle().Bold(true)
	partialStyle = lipgloss.NewStyle().Foreground(colorWarn)
	checkedStyle = lipgloss.NewStyle().Foreground(colorOK)
	errorStyle   = lipgloss.NewStyle().Foreground(colorErr)
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("codebundle") + " " + dimStyle.Render(m.root) + "\n")
	b.WriteString(m.renderFilterBar() + "\n")

	vis := m.visibleNodes()
	if len(vis) == 0 {
		if m.query != "" {
			b.WriteString(dimStyle.Render("  No matches") + "\n")
		} else {
			b.WriteString(dimStyle.Render("  (no files)") + "\n")
		}
	}
	end := m.offset + m.height
	if end > len(vis) {
		end = len(vis)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(vis[i], i == m.cursor) + "\n")
	}

	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderFilterBar() string {
	switch {
	case m.filtering:
		return "Filter: " + m.query + cursorStyle.Render("█")
	case m.query != "":
		return dimStyle.Render("Filter: ") + m.query + dimStyle.Render("  (/ edit, esc clear)")
	default:
		return dimStyle.Render("/ filter  space toggle  a all  A none  enter fold  e export  q quit")
	}
}

func (m Model) renderRow(n selection.Node, current bool) string {
	prefix := "  "
	if current {
		prefix = cursorStyle.Render("> ")
	}
	box := m.checkbox(n)
	switch n.Kind {
	case selection.NodeFile:
		fold := "▾"
		if m.collapsed[n.Path] {
			fold = "▸"
		}
		return prefix + box + " " + fold + " " + fileStyle.Render(n.Name)
	case selection.NodeFunction:
		return prefix + "    " + box + " " + n.Name + dimStyle.Render("()")
	case selection.NodeClass:
		return prefix + "    " + box + " " + dimStyle.Render("class ") + n.Name
	default:
		return prefix + "        " + box + " " + n.Name + dimStyle.Render("()")
	}
}

func (m Model) checkbox(n selection.Node) string {
	var st selection.TriState
	var err error
	switch n.Kind {
	case selection.NodeFile:
		st, err = m.state.FileState(n.Path)
	case selection.NodeClass:
		// [x] follows the class box; [-] marks methods picked under an
		// unchecked box.
		var on bool
		if on, err = m.state.ClassChecked(n.Path, n.Class); err == nil {
			if on {
				st = selection.Full
			} else if cs, _ := m.state.ClassState(n.Path, n.Class); cs != selection.Unselected {
				st = selection.Partial
			}
		}
	default:
		var on bool
		on, err = m.state.Checked(n)
		if on {
			st = selection.Full
		}
	}
	if err != nil {
		return errorStyle.Render("[?]")
	}
	switch st {
	case selection.Full:
		return checkedStyle.Render("[x]")
	case selection.Partial:
		return partialStyle.Render("[-]")
	default:
		return "[ ]"
	}
}

func (m Model) renderStatus() string {
	st := m.state.Stats()
	line := dimStyle.Render(fmt.Sprintf("%d files, %d items selected", st.Files, st.Items))
	if m.status == "" {
		return line
	}
	if m.statusErr {
		return line + "  " + errorStyle.Render(m.status)
	}
	return line + "  " + m.status
}
