// Package revdetails implements the revision-details screen: a
// revision's message plus its changed-file list, with a filterable,
// multi-select entry list and a diff of the (filtered) selection.
package revdetails

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kestrel-tools/vcsview/internal/drawer"
	"github.com/kestrel-tools/vcsview/internal/mode"
	"github.com/kestrel-tools/vcsview/internal/vcs"
	"github.com/kestrel-tools/vcsview/internal/widget"
	"github.com/kestrel-tools/vcsview/internal/worker"
)

type state int

const (
	stateIdle state = iota
	stateWaiting
	stateViewDiff
)

// InfoMsg carries the result of a revision_details() call. A backend
// error is folded into Message rather than kept as a separate error, so
// it renders the same way a successful-but-empty message would.
type InfoMsg struct {
	Info vcs.RevisionInfo
}

// DiffMsg carries the result of a diff() call scoped to this revision.
type DiffMsg struct {
	Text string
	Err  error
}

// Model is the revision-details mode's state machine.
type Model struct {
	services mode.Services

	state    state
	revision string
	entries  []vcs.SelectableRevisionEntry

	output   widget.Output
	sel      widget.SelectMenu
	filter   widget.Filter
	showFull bool

	width, height int
}

// New builds a revision-details mode bound to the given backend.
func New(services mode.Services) *Model {
	return &Model{services: services}
}

func (m *Model) SetSize(w, h int) { m.width, m.height = w, h }

// Enter loads the given revision's message and changed-file list,
// coalescing with a load already in flight for (implicitly) the same
// revision.
func (m *Model) Enter(revision string) tea.Cmd {
	if m.state == stateWaiting {
		return nil
	}
	m.state = stateWaiting
	m.revision = revision
	m.output.Set("")
	m.filter.Clear()
	m.sel.SetCursor(0)
	m.showFull = false

	backend := m.services.Backend
	return worker.Run("revision-details", func(ctx context.Context) (vcs.RevisionInfo, error) {
		info, err := backend.RevisionDetails(ctx, revision)
		if err != nil {
			return vcs.RevisionInfo{Message: err.Error()}, nil
		}
		vcs.SortByStatus(info.Entries)
		return info, nil
	}, func(info vcs.RevisionInfo, _ error) tea.Msg {
		return InfoMsg{Info: info}
	})
}

func (m *Model) IsWaitingResponse() bool {
	switch m.state {
	case stateIdle:
		return false
	case stateWaiting:
		return true
	default:
		return m.output.Text() == ""
	}
}

func (m *Model) Header() (title, left, right string) {
	if m.state == stateViewDiff {
		return "diff", "", "[arrows]move"
	}
	return "revision details", "[d]diff", "[tab]full message [arrows]move [space]toggle [a]toggle all [ctrl+f]filter"
}

// OnKey routes one key event. A focused filter absorbs everything;
// otherwise navigation and the select actions run first (against the
// filtered list), then Ctrl-f, Tab, and 'd' apply while idle.
func (m *Model) OnKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.filter.HasFocus() {
		m.filter.OnKey(msg)
		m.refilter()
		return true, nil
	}

	switch m.state {
	case stateViewDiff:
		m.output.OnKey(mode.AvailableHeight(m.height), msg)
		if widget.IsCancel(msg) {
			m.state = stateIdle
		}
		return false, nil
	case stateIdle:
		messageLines := 1
		if m.showFull {
			messageLines = m.output.LineCount()
		}
		avail := mode.AvailableHeight(m.height) - messageLines - 1
		if avail < 0 {
			avail = 0
		}
		action := m.sel.OnKey(len(m.filter.VisibleIndices()), avail, msg)
		switch action {
		case widget.SelectToggle:
			if idx, ok := m.filter.GetVisibleIndex(m.sel.Cursor()); ok {
				m.entries[idx].Selected = !m.entries[idx].Selected
			}
		case widget.SelectToggleAll:
			m.toggleAllVisible()
		}

		switch {
		case msg.Type == tea.KeyCtrlF:
			m.filter.Enter()
			return true, nil
		case msg.Type == tea.KeyTab:
			m.showFull = !m.showFull
		case isRune(msg, 'd'):
			if len(m.entries) > 0 {
				return false, m.doDiff()
			}
		}
	}
	return false, nil
}

func (m *Model) toggleAllVisible() {
	for _, idx := range m.filter.VisibleIndices() {
		m.entries[idx].Selected = !m.entries[idx].Selected
	}
}

func (m *Model) doDiff() tea.Cmd {
	entries := m.selectedOrAllEntries()
	m.state = stateViewDiff
	m.output.Set("")
	m.filter.Clear()

	backend := m.services.Backend
	revision := m.revision
	return worker.Run("revision-diff", func(ctx context.Context) (string, error) {
		return backend.Diff(ctx, revision, entries)
	}, func(text string, err error) tea.Msg {
		return DiffMsg{Text: text, Err: err}
	})
}

// OnResponse accepts InfoMsg whenever a load is in flight, and DiffMsg
// only while viewing a diff.
func (m *Model) OnResponse(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case InfoMsg:
		if m.state == stateWaiting {
			m.state = stateIdle
		}
		if m.state == stateIdle {
			m.output.Set(msg.Info.Message)
		}
		m.entries = vcs.ToSelectable(msg.Info.Entries)
		m.refilter()
	case DiffMsg:
		if m.state != stateViewDiff {
			return nil
		}
		text := msg.Text
		if msg.Err != nil {
			text = msg.Err.Error()
		}
		if text == "" {
			text = "\n"
		}
		m.output.Set(text)
	}
	return nil
}

func (m *Model) refilter() {
	wrapped := make([]filterableEntry, len(m.entries))
	for i, e := range m.entries {
		wrapped[i] = filterableEntry{e}
	}
	cursor := widget.Apply(&m.filter, wrapped, m.sel.Cursor())
	m.sel.FixCursorOnFilter(cursor, mode.AvailableHeight(m.height))
}

func (m *Model) selectedOrAllEntries() []vcs.RevisionEntry {
	var selected []vcs.RevisionEntry
	for _, e := range m.entries {
		if e.Selected {
			selected = append(selected, e.AsEntry())
		}
	}
	if len(selected) > 0 {
		return selected
	}
	out := make([]vcs.RevisionEntry, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.AsEntry()
	}
	return out
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString("filter: " + m.filter.Pattern())
	b.WriteByte('\n')

	if m.state == stateViewDiff {
		b.WriteString(drawer.WrapOutput(m.output.TextFromScroll(), m.width))
		return b.String()
	}

	if m.showFull {
		b.WriteString(drawer.WrapOutput(m.output.TextFromScroll(), m.width))
	} else {
		line := m.output.Text()
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		b.WriteString(drawer.TruncateLine(line, m.width))
	}
	b.WriteByte('\n')

	if m.state == stateIdle {
		rows := make([]revRow, 0, len(m.filter.VisibleIndices()))
		for _, idx := range m.filter.VisibleIndices() {
			rows = append(rows, revRow{m.entries[idx]})
		}
		avail := mode.AvailableHeight(m.height) - 2
		b.WriteString(drawer.RenderSelectMenu(rows, m.sel.Cursor(), m.sel.Scroll(), avail, m.width))
	}
	return b.String()
}

type filterableEntry struct{ vcs.SelectableRevisionEntry }

func (e filterableEntry) FilterText() string { return e.Name }

type revRow struct{ vcs.SelectableRevisionEntry }

func (e revRow) Render(hovered bool, width int) (string, int) {
	check := " "
	if e.Selected {
		check = "x"
	}
	label := "[" + check + "] " + e.Status.String() + " " + e.Name
	style := drawer.StatusColor(e.Status.String())
	if hovered {
		style = drawer.HoverStyle
	}
	return drawer.TruncateLine(style.Render(label), width), 1
}

func isRune(msg tea.KeyMsg, r rune) bool {
	c, ok := widget.Char(msg)
	return ok && c == r
}
