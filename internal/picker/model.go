// Package picker is the interactive terminal tree used to choose what goes
// into a bundle. It drives a selection.State from a single bubbletea loop.
package picker

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"codebundle/internal/selection"
	t "codebundle/internal/types"
)

// Exporter submits a payload. exportclient.Client satisfies it.
type Exporter interface {
	Export(ctx context.Context, req t.ExportRequest) (t.ExportResponse, error)
}

// exportDoneMsg carries the result of an asynchronous export.
type exportDoneMsg struct {
	resp t.ExportResponse
	err  error
}

type Model struct {
	root     string
	state    *selection.State
	nodes    []selection.Node
	exporter Exporter

	cursor int // index into visibleNodes()
	offset int
	height int
	width  int

	filtering bool
	query     string

	collapsed map[string]bool

	pending   bool
	status    string
	statusErr bool
	lastErr   error // last failed export only
}

// New builds a picker over tree. Nothing is selected initially.
func New(tree t.Tree, exporter Exporter) (Model, error) {
	st, err := selection.New(tree.Files)
	if err != nil {
		return Model{}, fmt.Errorf("index tree: %w", err)
	}
	return Model{
		root:      tree.Root,
		state:     st,
		nodes:     st.Outline(),
		exporter:  exporter,
		height:    20,
		collapsed: map[string]bool{},
	}, nil
}

func (m Model) Init() tea.Cmd { return nil }

// State exposes the selection, e.g. for printing the payload after exit.
func (m Model) State() *selection.State { return m.state }

// LastError is the error of the most recent failed export, if any.
func (m Model) LastError() error { return m.lastErr }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height - 4
		if m.height < 1 {
			m.height = 1
		}
		m.clampScroll()
		return m, nil

	case exportDoneMsg:
		m.pending = false
		if msg.err != nil {
			m.lastErr = msg.err
			m.status, m.statusErr = "Export failed.", true
			return m, nil
		}
		m.lastErr = nil
		m.statusErr = false
		m.status = fmt.Sprintf("Exported %d files (%d tokens) to %s", msg.resp.Files, msg.resp.Tokens, msg.resp.OutPath)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(+1)
		case "home", "g":
			m.cursor = 0
			m.clampScroll()
		case "end", "G":
			m.cursor = len(m.visibleNodes()) - 1
			m.clampScroll()
		case " ", "x":
			m.toggleCurrent()
		case "a":
			m.state.SetAll(true)
		case "A":
			m.state.SetAll(false)
		case "enter", "right", "left", "tab":
			m.toggleCollapse(msg.String())
		case "/":
			m.filtering = true
		case "esc":
			if m.query != "" {
				m.setQuery("")
			}
		case "e":
			return m.startExport()
		}
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyEsc:
		m.filtering = false
		m.setQuery("")
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.setQuery(string(r[:len(r)-1]))
		}
	case tea.KeySpace:
		m.setQuery(m.query + " ")
	case tea.KeyRunes:
		m.setQuery(m.query + string(msg.Runes))
	}
	return m, nil
}

func (m *Model) setQuery(q string) {
	m.query = q
	m.state.ApplyFilter(q)
	m.cursor = 0
	m.offset = 0
}

// startExport snapshots the payload on the event loop and submits it in the
// background. A second request while one is in flight is ignored.
func (m Model) startExport() (tea.Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	if m.exporter == nil {
		m.status, m.statusErr = "No export endpoint configured.", true
		return m, nil
	}
	m.pending = true
	m.status, m.statusErr = "Exporting...", false
	payload := m.state.Payload(m.root)
	exporter := m.exporter
	return m, func() tea.Msg {
		resp, err := exporter.Export(context.Background(), payload)
		return exportDoneMsg{resp: resp, err: err}
	}
}

func (m *Model) toggleCurrent() {
	n, ok := m.current()
	if !ok {
		return
	}
	if err := m.state.Toggle(n); err != nil {
		m.status, m.statusErr = fmt.Sprintf("toggle %s: %v", n.Name, err), true
	}
}

func (m *Model) toggleCollapse(key string) {
	n, ok := m.current()
	if !ok {
		return
	}
	switch key {
	case "right":
		delete(m.collapsed, n.Path)
	case "left":
		m.collapsed[n.Path] = true
	default:
		if m.collapsed[n.Path] {
			delete(m.collapsed, n.Path)
		} else {
			m.collapsed[n.Path] = true
		}
	}
	// Keep the cursor on the file row when its children disappear.
	if m.collapsed[n.Path] {
		for i, v := range m.visibleNodes() {
			if v.Kind == selection.NodeFile && v.Path == n.Path {
				m.cursor = i
				break
			}
		}
	}
	m.clampScroll()
}

// visibleNodes applies the filter and collapsed files.
func (m Model) visibleNodes() []selection.Node {
	out := make([]selection.Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		if !m.state.Visible(n.Path) {
			continue
		}
		if n.Kind != selection.NodeFile && m.collapsed[n.Path] {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (m Model) current() (selection.Node, bool) {
	vis := m.visibleNodes()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return selection.Node{}, false
	}
	return vis[m.cursor], true
}

func (m *Model) moveCursor(dir int) {
	m.cursor += dir
	m.clampScroll()
}

func (m *Model) clampScroll() {
	n := len(m.visibleNodes())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.height > 0 && m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Run starts the picker full-screen and returns the final model.
func Run(ctx context.Context, tree t.Tree, exporter Exporter) (Model, error) {
	m, err := New(tree, exporter)
	if err != nil {
		return Model{}, err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return m, err
	}
	out, _ := final.(Model)
	return out, nil
}
