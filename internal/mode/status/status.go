// Package status implements the working-tree status screen: the entry
// list a repository opens on, supporting commit, discard, diff, and merge
// conflict resolution.
package status

import (
	"context"
	"fmt"
	"sort"

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
	stateWaitingCommit
	stateWaitingDiscard
	stateWaitingResolveOurs
	stateWaitingResolveTheirs
	stateCommitInput
	stateViewDiff
)

// RefreshMsg carries the result of a status() call.
type RefreshMsg struct {
	Info vcs.StatusInfo
	Err  error
}

// CommitMsg carries the result of a commit() call.
type CommitMsg struct{ Err error }

// DiscardMsg carries the result of a discard() call.
type DiscardMsg struct{ Err error }

// ResolveOursMsg carries the result of resolve_taking_ours().
type ResolveOursMsg struct{ Err error }

// ResolveTheirsMsg carries the result of resolve_taking_theirs().
type ResolveTheirsMsg struct{ Err error }

// DiffMsg carries the result of a working-tree diff() call.
type DiffMsg struct {
	Text string
	Err  error
}

// Model is the status mode's state machine.
type Model struct {
	services mode.Services

	state   state
	header  string
	entries []vcs.SelectableRevisionEntry

	output   widget.Output
	readline widget.ReadLine
	sel      widget.SelectMenu

	width, height int
}

// New builds a status mode bound to the given backend.
func New(services mode.Services) *Model {
	return &Model{services: services}
}

// Enter (re)issues a status refresh, coalescing with one already in
// flight.
func (m *Model) Enter() tea.Cmd {
	if m.state == stateWaitingRefresh {
		return nil
	}
	m.state = stateWaitingRefresh
	return m.refreshCmd()
}

func (m *Model) refreshCmd() tea.Cmd {
	backend := m.services.Backend
	return worker.Run("status", backend.Status, func(info vcs.StatusInfo, err error) tea.Msg {
		return RefreshMsg{Info: info, Err: err}
	})
}

func (m *Model) SetSize(w, h int) { m.width, m.height = w, h }

func (m *Model) IsWaitingResponse() bool {
	switch m.state {
	case stateIdle, stateCommitInput:
		return false
	case stateViewDiff:
		return m.output.Text() == ""
	default:
		return true
	}
}

func (m *Model) Header() (title, left, right string) {
	switch m.state {
	case stateCommitInput:
		return "status", "", "[enter]submit [esc]cancel [ctrl+w]delete word [ctrl+u]delete all"
	case stateViewDiff:
		return "status", "", "[arrows]move"
	default:
		return "status", "[c]commit [R]discard [d]diff [L]take ours [T]take theirs", "[arrows]move [space]toggle [a]toggle all"
	}
}

// OnKey routes one key event. The returned bool reports whether this mode
// absorbed the key as text input (commit message or diff-view
// navigation) and top-level shortcuts like quit-on-cancel must be
// suppressed.
func (m *Model) OnKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch m.state {
	case stateCommitInput:
		return m.onKeyCommitInput(msg)
	case stateViewDiff:
		m.output.OnKey(mode.AvailableHeight(m.height), msg)
		if widget.IsCancel(msg) {
			m.state = stateIdle
		}
		return true, nil
	}

	avail := mode.AvailableHeight(m.height)
	var action widget.SelectAction
	if m.output.Text() != "" {
		m.output.OnKey(avail, msg)
	} else {
		action = m.sel.OnKey(len(m.entries), avail, msg)
	}
	switch action {
	case widget.SelectToggle:
		m.entries[m.sel.Cursor()].Selected = !m.entries[m.sel.Cursor()].Selected
	case widget.SelectToggleAll:
		m.toggleAll()
	}

	if m.state == stateIdle {
		switch {
		case isRune(msg, 'c') && len(m.entries) != 0:
			m.state = stateCommitInput
			m.readline.Clear()
			m.output.Set("")
			return true, nil
		case isRune(msg, 'R'):
			return false, m.doDiscard()
		case isRune(msg, 'd'):
			return false, m.doDiff()
		case isRune(msg, 'L'):
			return false, m.doResolve(true)
		case isRune(msg, 'T'):
			return false, m.doResolve(false)
		}
	}
	return false, nil
}

func (m *Model) onKeyCommitInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case widget.IsSubmit(msg):
		message := m.readline.Input()
		m.readline.Clear()
		return true, m.doCommit(message)
	case widget.IsCancel(msg):
		// Re-entering the mode clears the readline and re-issues the
		// status refresh, matching a cancelled commit's recovery path.
		m.readline.Clear()
		m.state = stateIdle
		return true, m.Enter()
	default:
		m.readline.OnKey(msg)
		return true, nil
	}
}

// OnResponse accepts or drops a backend response based on the current
// state; a response that does not match the outstanding operation is
// silently ignored.
func (m *Model) OnResponse(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case RefreshMsg:
		if m.state != stateWaitingRefresh {
			return nil
		}
		m.state = stateIdle
		if msg.Err != nil {
			m.header = ""
			m.entries = nil
			m.output.Set(msg.Err.Error())
		} else {
			m.header = msg.Info.Header
			m.entries = vcs.ToSelectable(msg.Info.Entries)
			m.output.Set("")
		}
		m.sel.SaturateCursor(len(m.entries))
	case CommitMsg:
		if m.state != stateWaitingCommit {
			return nil
		}
		m.state = stateIdle
		if msg.Err != nil {
			// The already-trimmed list is discarded outright on a
			// failed commit rather than reconciled against the backend.
			m.entries = nil
			m.output.Set(msg.Err.Error())
			m.sel.SaturateCursor(0)
		}
	case DiscardMsg:
		if m.state != stateWaitingDiscard {
			return nil
		}
		m.state = stateIdle
		if msg.Err != nil {
			m.output.Set(msg.Err.Error())
		}
	case ResolveOursMsg:
		m.finishResolve(stateWaitingResolveOurs, msg.Err)
	case ResolveTheirsMsg:
		m.finishResolve(stateWaitingResolveTheirs, msg.Err)
	case DiffMsg:
		if m.state != stateViewDiff {
			return nil
		}
		switch {
		case msg.Err != nil:
			m.output.Set(msg.Err.Error())
		case msg.Text == "":
			m.output.Set("\n")
		default:
			m.output.Set(msg.Text)
		}
	}
	return nil
}

func (m *Model) finishResolve(expect state, err error) {
	if m.state != expect {
		return
	}
	m.state = stateIdle
	if err != nil {
		m.output.Set(err.Error())
	}
}

func (m *Model) toggleAll() {
	for i := range m.entries {
		m.entries[i].Selected = !m.entries[i].Selected
	}
}

func (m *Model) selectedIndices() []int {
	var idx []int
	for i, e := range m.entries {
		if e.Selected {
			idx = append(idx, i)
		}
	}
	return idx
}

// selectedOrAllEntries returns the selected subset, or every entry if
// none are selected.
func (m *Model) selectedOrAllEntries() []vcs.RevisionEntry {
	idx := m.selectedIndices()
	if len(idx) == 0 {
		out := make([]vcs.RevisionEntry, len(m.entries))
		for i, e := range m.entries {
			out[i] = e.AsEntry()
		}
		return out
	}
	out := make([]vcs.RevisionEntry, len(idx))
	for i, pos := range idx {
		out[i] = m.entries[pos].AsEntry()
	}
	return out
}

// removeSelectedOrAll removes the selected subset from the local list, or
// clears it entirely if none are selected, matching the entries just
// handed to commit/discard.
func (m *Model) removeSelectedOrAll() {
	idx := m.selectedIndices()
	if len(idx) == 0 {
		m.entries = nil
		m.sel.SaturateCursor(0)
		return
	}
	sort.Sort(sort.Reverse(sort.IntSlice(idx)))
	for _, i := range idx {
		m.entries = append(m.entries[:i], m.entries[i+1:]...)
		m.sel.OnRemoveEntry(i)
	}
	m.sel.SaturateCursor(len(m.entries))
}

func (m *Model) doCommit(message string) tea.Cmd {
	toCommit := m.selectedOrAllEntries()
	m.removeSelectedOrAll()
	m.state = stateWaitingCommit

	backend := m.services.Backend
	commitCmd := worker.RunErr("commit", func(ctx context.Context) error {
		return backend.Commit(ctx, message, toCommit)
	}, func(err error) tea.Msg { return CommitMsg{Err: err} })

	// The mode change to log is sequenced ahead of the commit's own
	// response, so the view has already switched by the time the commit
	// finishes.
	return tea.Sequence(
		func() tea.Msg { return mode.ChangeMsg{Kind: mode.Log} },
		commitCmd,
	)
}

func (m *Model) doDiscard() tea.Cmd {
	toDiscard := m.selectedOrAllEntries()
	m.removeSelectedOrAll()
	m.state = stateWaitingDiscard

	backend := m.services.Backend
	return worker.RunErr("discard", func(ctx context.Context) error {
		return backend.Discard(ctx, toDiscard)
	}, func(err error) tea.Msg { return DiscardMsg{Err: err} })
}

func (m *Model) doDiff() tea.Cmd {
	entries := m.selectedOrAllEntries()
	m.state = stateViewDiff
	m.output.Set("")

	backend := m.services.Backend
	return worker.Run("diff", func(ctx context.Context) (string, error) {
		return backend.Diff(ctx, "", entries)
	}, func(text string, err error) tea.Msg { return DiffMsg{Text: text, Err: err} })
}

func (m *Model) doResolve(ours bool) tea.Cmd {
	entries := m.selectedOrAllEntries()
	backend := m.services.Backend
	if ours {
		m.state = stateWaitingResolveOurs
		return worker.RunErr("resolve-ours", func(ctx context.Context) error {
			return backend.ResolveTakingOurs(ctx, entries)
		}, func(err error) tea.Msg { return ResolveOursMsg{Err: err} })
	}
	m.state = stateWaitingResolveTheirs
	return worker.RunErr("resolve-theirs", func(ctx context.Context) error {
		return backend.ResolveTakingTheirs(ctx, entries)
	}, func(err error) tea.Msg { return ResolveTheirsMsg{Err: err} })
}

func (m *Model) View() string {
	switch m.state {
	case stateCommitInput:
		return "commit message: " + m.readline.Input()
	case stateViewDiff:
		return drawer.WrapOutput(m.output.TextFromScroll(), m.width)
	}
	if m.output.Text() != "" {
		return drawer.WrapOutput(m.output.TextFromScroll(), m.width)
	}

	header := m.header
	if header == "" {
		header = "clean"
	}
	if len(m.entries) == 0 {
		return header + "\n" + drawer.YellowStyle.Render("nothing to commit!")
	}

	rows := make([]entryRow, len(m.entries))
	for i, e := range m.entries {
		rows[i] = entryRow{e}
	}
	avail := mode.AvailableHeight(m.height) - 1
	return header + "\n" + drawer.RenderSelectMenu(rows, m.sel.Cursor(), m.sel.Scroll(), avail, m.width)
}

type entryRow struct {
	vcs.SelectableRevisionEntry
}

func (e entryRow) Render(hovered bool, width int) (string, int) {
	check := " "
	if e.Selected {
		check = "x"
	}
	label := fmt.Sprintf("[%s] %-*s %s", check, vcs.MaxStatusLen, e.Status.String(), e.Name)
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
