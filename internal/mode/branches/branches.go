// Package branches implements the branch list screen: checkout, create,
// delete, and merge, with a fuzzy filter and the checked-out branch
// pre-positioned under the cursor on refresh.
package branches

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
	stateWaitingMerge
	stateNewNameInput
)

// RefreshMsg carries the result of a branches() listing. It is also the
// shape new/delete resolve to (action, then a re-list), and the shape a
// failed checkout or merge reports back as (those two otherwise resolve
// through CheckoutMsg/MergeMsg).
type RefreshMsg struct {
	Entries []vcs.BranchEntry
	Err     error
}

// CheckoutMsg reports a successful checkout_branch().
type CheckoutMsg struct{}

// MergeMsg reports a successful merge_branch().
type MergeMsg struct{}

// Model is the branches mode's state machine.
type Model struct {
	services mode.Services

	state   state
	entries []vcs.BranchEntry

	output   widget.Output
	sel      widget.SelectMenu
	filter   widget.Filter
	readline widget.ReadLine

	width, height int
}

// New builds a branches mode bound to the given backend.
func New(services mode.Services) *Model {
	return &Model{services: services}
}

func (m *Model) SetSize(w, h int) { m.width, m.height = w, h }

func (m *Model) isWaiting() bool {
	switch m.state {
	case stateWaitingRefresh, stateWaitingNew, stateWaitingDelete, stateWaitingMerge:
		return true
	}
	return false
}

func (m *Model) IsWaitingResponse() bool { return m.isWaiting() }

// Enter (re)issues a branch list refresh, coalescing with one already in
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
	return worker.Run("branches", func(ctx context.Context) ([]vcs.BranchEntry, error) {
		entries, err := backend.Branches(ctx)
		vcs.SortBranchesByName(entries)
		return entries, err
	}, func(entries []vcs.BranchEntry, err error) tea.Msg {
		return RefreshMsg{Entries: entries, Err: err}
	})
}

func (m *Model) Header() (title, left, right string) {
	title = "branches"
	switch m.state {
	case stateWaitingNew:
		title = "new branch"
	case stateWaitingDelete:
		title = "delete branch"
	case stateWaitingMerge:
		title = "merge branch"
	case stateNewNameInput:
		title = "new branch name"
	}
	if m.state == stateNewNameInput {
		return title, "", "[enter]submit [esc]cancel [ctrl+w]delete word [ctrl+u]delete all"
	}
	return title, "[g]checkout [n]new [D]delete [m]merge", "[arrows]move [ctrl+f]filter"
}

// OnKey routes one key event. A focused filter or the new-name prompt
// absorbs everything; otherwise navigation runs first (output scroll
// when an error is displayed, else the select menu), then Ctrl-f/g/n/D/m
// apply — these run even while a refresh is in flight, matching a
// refresh racing a user-initiated action.
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
	case isRune(msg, 'm'):
		if hasCurrent {
			return false, m.doMerge(m.entries[currentIdx])
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
		return true, worker.Run("new-branch", func(ctx context.Context) ([]vcs.BranchEntry, error) {
			if err := backend.NewBranch(ctx, name); err != nil {
				return nil, err
			}
			entries, err := backend.Branches(ctx)
			vcs.SortBranchesByName(entries)
			return entries, err
		}, func(entries []vcs.BranchEntry, err error) tea.Msg {
			return RefreshMsg{Entries: entries, Err: err}
		})
	case widget.IsCancel(msg):
		m.state = stateIdle
		return true, m.Enter()
	}
	return true, nil
}

func (m *Model) doCheckout(entry vcs.BranchEntry) tea.Cmd {
	backend := m.services.Backend
	return tea.Sequence(
		func() tea.Msg { return mode.ChangeMsg{Kind: mode.Log} },
		worker.RunErr("checkout-branch", func(ctx context.Context) error {
			return backend.CheckoutBranch(ctx, entry)
		}, func(err error) tea.Msg {
			if err != nil {
				return RefreshMsg{Err: err}
			}
			return CheckoutMsg{}
		}),
	)
}

func (m *Model) doMerge(entry vcs.BranchEntry) tea.Cmd {
	m.state = stateWaitingMerge
	backend := m.services.Backend
	return tea.Sequence(
		func() tea.Msg { return mode.ChangeMsg{Kind: mode.Log} },
		worker.RunErr("merge-branch", func(ctx context.Context) error {
			return backend.MergeBranch(ctx, entry)
		}, func(err error) tea.Msg {
			if err != nil {
				return RefreshMsg{Err: err}
			}
			return MergeMsg{}
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
	return worker.Run("delete-branch", func(ctx context.Context) ([]vcs.BranchEntry, error) {
		if err := backend.DeleteBranch(ctx, entry.Name); err != nil {
			return nil, err
		}
		entries, err := backend.Branches(ctx)
		vcs.SortBranchesByName(entries)
		return entries, err
	}, func(entries []vcs.BranchEntry, err error) tea.Msg {
		return RefreshMsg{Entries: entries, Err: err}
	})
}

// OnResponse accepts a RefreshMsg whenever the mode is waiting on
// anything (matching the original's blanket "if Waiting, go Idle" before
// applying the payload); CheckoutMsg/MergeMsg just settle the mode back
// to idle.
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
		m.placeCursorOnCheckedOut()
	case CheckoutMsg:
		m.state = stateIdle
	case MergeMsg:
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

func (m *Model) placeCursorOnCheckedOut() {
	real := -1
	for i, e := range m.entries {
		if e.CheckedOut {
			real = i
			break
		}
	}
	if real < 0 {
		return
	}
	for pos, idx := range m.filter.VisibleIndices() {
		if idx == real {
			m.sel.SetCursor(pos)
			return
		}
	}
}

func (m *Model) View() string {
	if m.state == stateNewNameInput {
		return "new branch name: " + m.readline.Input()
	}
	if m.output.Text() != "" {
		return drawer.WrapOutput(m.output.TextFromScroll(), m.width)
	}
	rows := make([]branchRow, 0, len(m.filter.VisibleIndices()))
	for _, idx := range m.filter.VisibleIndices() {
		rows = append(rows, branchRow{m.entries[idx]})
	}
	avail := mode.AvailableHeight(m.height)
	return drawer.RenderSelectMenu(rows, m.sel.Cursor(), m.sel.Scroll(), avail, m.width)
}

type filterableEntry struct{ vcs.BranchEntry }

func (e filterableEntry) FilterText() string { return e.Name }

type branchRow struct{ vcs.BranchEntry }

func (e branchRow) Render(hovered bool, width int) (string, int) {
	label := e.Name
	if e.CheckedOut {
		label += " (checked out)"
	}
	style := drawer.MutedStyle
	if hovered {
		style = drawer.HoverStyle
	}
	return drawer.TruncateLine(style.Render(label), width), 1
}

func isRune(msg tea.KeyMsg, r rune) bool {
	c, ok := widget.Char(msg)
	return ok && c == r
}
