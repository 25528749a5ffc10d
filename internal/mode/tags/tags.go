// Package tags implements the tag list screen: checkout, create, and
// delete, with a fuzzy filter. It is the simpler sibling of the branches
// screen — no merge, and no checked-out entry to track.
package tags

import (
	"context"

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
	stateWaitingRefresh
	stateWaitingNew
	stateWaitingDelete
	stateNewNameInput
)

// RefreshMsg carries the result of a tags() listing; it is also the shape
// new/delete resolve to, and the shape a failed checkout reports back as.
type RefreshMsg struct {
	Entries []vcs.TagEntry
	Err     error
}

// CheckoutMsg reports a successful checkout_tag().
type CheckoutMsg struct{}

// Model is the tags mode's state machine.
type Model struct {
	services mode.Services

	state   state
	entries []vcs.TagEntry

	output   widget.Output
	sel      widget.SelectMenu
	filter   widget.Filter
	readline widget.ReadLine

	width, height int
}

// New builds a tags mode bound to the given backend.
func New(services mode.Services) *Model {
	return &Model{services: services}
}

func (m *Model) SetSize(w, h int) { m.width, m.height = w, h }

func (m *Model) isWaiting() bool {
	switch m.state {
	case stateWaitingRefresh, stateWaitingNew, stateWaitingDelete:
		return true
	}
	return false
}

func (m *Model) IsWaitingResponse() bool { return m.isWaiting() }

// Enter (re)issues a tag list refresh, coalescing with one already in
// flight.
func (m *Model) Enter() tea.Cmd {
	if m.isWaiting() {
		return nil
	}
	m.state = stateWaitingRefresh
	m.output.Set("")
	m.refilterKeepingCursor()
	m.readline.Clear()
	return m.refreshCmd()
}

func (m *Model) refreshCmd() tea.Cmd {
	backend := m.services.Backend
	return worker.Run("tags", func(ctx context.Context) ([]vcs.TagEntry, error) {
		entries, err := backend.Tags(ctx)
		vcs.SortTagsByName(entries)
		return entries, err
	}, func(entries []vcs.TagEntry, err error) tea.Msg {
		return RefreshMsg{Entries: entries, Err: err}
	})
}

func (m *Model) Header() (title, left, right string) {
	title = "tags"
	switch m.state {
	case stateWaitingNew:
		title = "new tag"
	case stateWaitingDelete:
		title = "delete tag"
	case stateNewNameInput:
		title = "new tag name"
	}
	if m.state == stateNewNameInput {
		return title, "", "[enter]submit [esc]cancel [ctrl+w]delete word [ctrl+u]delete all"
	}
	return title, "[g]checkout [n]new [D]delete", "[arrows]move [ctrl+f]filter"
}

// OnKey routes one key event. A focused filter or the new-name prompt
// absorbs everything; otherwise navigation runs first, then Ctrl-f/g/n/D
// apply — these run even while a refresh is in flight.
func (m *Model) OnKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.state == stateNewNameInput {
		return m.onKeyNewName(msg)
	}
	if m.filter.HasFocus() {
		m.filter.OnKey(msg)
		m.refilterKeepingCursor()
		return true, nil
	}

	avail := mode.AvailableHeight(m.height)
	if m.output.Text() == "" {
		m.sel.OnKey(len(m.filter.VisibleIndices()), avail, msg)
	} else {
		m.output.OnKey(avail, msg)
	}

	currentIdx, hasCurrent := m.filter.GetVisibleIndex(m.sel.Cursor())

	switch {
	case msg.Type == tea.KeyCtrlF:
		m.filter.Enter()
		return true, nil
	case isRune(msg, 'g'):
		if hasCurrent {
			return false, m.doCheckout(m.entries[currentIdx])
		}
	case isRune(msg, 'n'):
		m.state = stateNewNameInput
		m.output.Set("")
		m.filter.Clear()
		m.readline.Clear()
		return true, nil
	case isRune(msg, 'D'):
		if hasCurrent {
			return false, m.doDelete(currentIdx)
		}
	}
	return false, nil
}

func (m *Model) onKeyNewName(msg tea.KeyMsg) (bool, tea.Cmd) {
	m.readline.OnKey(msg)
	switch {
	case widget.IsSubmit(msg):
		name := m.readline.Input()
		m.state = stateWaitingNew
		backend := m.services.Backend
		return true, worker.Run("new-tag", func(ctx context.Context) ([]vcs.TagEntry, error) {
			if err := backend.NewTag(ctx, name); err != nil {
				return nil, err
			}
			entries, err := backend.Tags(ctx)
			vcs.SortTagsByName(entries)
			return entries, err
		}, func(entries []vcs.TagEntry, err error) tea.Msg {
			return RefreshMsg{Entries: entries, Err: err}
		})
	case widget.IsCancel(msg):
		m.state = stateIdle
		return true, m.Enter()
	}
	return true, nil
}

func (m *Model) doCheckout(entry vcs.TagEntry) tea.Cmd {
	backend := m.services.Backend
	return tea.Sequence(
		func() tea.Msg { return mode.ChangeMsg{Kind: mode.Log} },
		worker.RunErr("checkout-tag", func(ctx context.Context) error {
			return backend.CheckoutTag(ctx, entry)
		}, func(err error) tea.Msg {
			if err != nil {
				return RefreshMsg{Err: err}
			}
			return CheckoutMsg{}
		}),
	)
}

func (m *Model) doDelete(idx int) tea.Cmd {
	entry := m.entries[idx]
	m.state = stateWaitingDelete
	m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	m.filter.OnRemoveEntry(idx)
	m.sel.OnRemoveEntry(m.sel.Cursor())

	backend := m.services.Backend
	return worker.Run("delete-tag", func(ctx context.Context) ([]vcs.TagEntry, error) {
		if err := backend.DeleteTag(ctx, entry.Name); err != nil {
			return nil, err
		}
		entries, err := backend.Tags(ctx)
		vcs.SortTagsByName(entries)
		return entries, err
	}, func(entries []vcs.TagEntry, err error) tea.Msg {
		return RefreshMsg{Entries: entries, Err: err}
	})
}

// OnResponse accepts a RefreshMsg whenever the mode is waiting on
// anything; CheckoutMsg just settles the mode back to idle.
func (m *Model) OnResponse(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case RefreshMsg:
		m.entries = nil
		m.output.Set("")
		if m.isWaiting() {
			m.state = stateIdle
		}
		if m.state == stateIdle {
			if msg.Err != nil {
				m.output.Set(msg.Err.Error())
			} else {
				m.entries = msg.Entries
			}
		}
		m.refilterKeepingCursor()
	case CheckoutMsg:
		m.state = stateIdle
	}
	return nil
}

func (m *Model) refilterKeepingCursor() {
	wrapped := make([]filterableEntry, len(m.entries))
	for i, e := range m.entries {
		wrapped[i] = filterableEntry{e}
	}
	cursor := widget.Apply(&m.filter, wrapped, m.sel.Cursor())
	m.sel.FixCursorOnFilter(cursor, mode.AvailableHeight(m.height))
}

func (m *Model) View() string {
	if m.state == stateNewNameInput {
		return "new tag name: " + m.readline.Input()
	}
	if m.output.Text() != "" {
		return drawer.WrapOutput(m.output.TextFromScroll(), m.width)
	}
	rows := make([]tagRow, 0, len(m.filter.VisibleIndices()))
	for _, idx := range m.filter.VisibleIndices() {
		rows = append(rows, tagRow{m.entries[idx]})
	}
	avail := mode.AvailableHeight(m.height)
	return drawer.RenderSelectMenu(rows, m.sel.Cursor(), m.sel.Scroll(), avail, m.width)
}

type filterableEntry struct{ vcs.TagEntry }

func (e filterableEntry) FilterText() string { return e.Name }

type tagRow struct{ vcs.TagEntry }

func (e tagRow) Render(hovered bool, width int) (string, int) {
	style := drawer.MutedStyle
	if hovered {
		style = drawer.HoverStyle
	}
	return drawer.TruncateLine(style.Render(e.Name), width), 1
}

func isRune(msg tea.KeyMsg, r rune) bool {
	c, ok := widget.Char(msg)
	return ok && c == r
}
