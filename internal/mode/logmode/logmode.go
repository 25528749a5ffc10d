// Package logmode implements the commit history screen: a lazily-paged
// list of LogEntry rows supporting checkout, merge, fetch, pull, and
// push, plus drilling into a revision's details.
package logmode

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

type waitOp int

const (
	opNone waitOp = iota
	opRefresh
	opCheckout
	opMerge
	opFetch
	opPull
	opPush
)

// RefreshMsg is the single response shape every log operation resolves
// to: a plain pagination fetch, or a checkout/merge/fetch/pull/push
// followed internally by a fresh log(0, height) call. StartIndex names
// how many of the mode's existing entries to keep before appending
// Entries; an action that succeeds always asks for a full page from
// index 0, which truncates the whole list before replacing it.
type RefreshMsg struct {
	StartIndex int
	Entries    []vcs.LogEntry
	Err        error
}

// Model is the log mode's state machine.
type Model struct {
	services mode.Services

	waiting bool
	op      waitOp

	entries  []vcs.LogEntry
	output   widget.Output
	sel      widget.SelectMenu
	showFull bool

	width, height int
}

// New builds a log mode bound to the given backend.
func New(services mode.Services) *Model {
	return &Model{services: services}
}

func (m *Model) SetSize(w, h int) { m.width, m.height = w, h }

// Enter (re)issues a log refresh from the top, coalescing with one
// already in flight.
func (m *Model) Enter() tea.Cmd {
	if m.waiting {
		return nil
	}
	m.waiting = true
	m.op = opRefresh
	m.output.Set("")
	m.showFull = false
	return m.logCmd(0)
}

type logResult struct {
	start   int
	entries []vcs.LogEntry
}

func (m *Model) logCmd(skip int) tea.Cmd {
	backend := m.services.Backend
	avail := mode.AvailableHeight(m.height)
	return worker.Run("log", func(ctx context.Context) (logResult, error) {
		start, entries, err := backend.Log(ctx, skip, avail)
		return logResult{start, entries}, err
	}, func(r logResult, err error) tea.Msg {
		return RefreshMsg{StartIndex: r.start, Entries: r.entries, Err: err}
	})
}

// actionThenRefresh runs action, then — only if it succeeded — fetches a
// fresh first page; an action failure still arrives as a RefreshMsg
// carrying that error, which on_response handles by clearing the list,
// exactly as a failed pagination fetch would.
func (m *Model) actionThenRefresh(op waitOp, action func(ctx context.Context) error) tea.Cmd {
	m.waiting = true
	m.op = op
	backend := m.services.Backend
	avail := mode.AvailableHeight(m.height)
	return worker.Run("log-action", func(ctx context.Context) (logResult, error) {
		if err := action(ctx); err != nil {
			return logResult{}, err
		}
		start, entries, err := backend.Log(ctx, 0, avail)
		return logResult{start, entries}, err
	}, func(r logResult, err error) tea.Msg {
		return RefreshMsg{StartIndex: r.start, Entries: r.entries, Err: err}
	})
}

func (m *Model) IsWaitingResponse() bool { return m.waiting }

func (m *Model) Header() (title, left, right string) {
	name := "log"
	switch m.op {
	case opCheckout:
		name = "checkout"
	case opMerge:
		name = "merge"
	case opFetch:
		name = "fetch"
	case opPull:
		name = "pull"
	case opPush:
		name = "push"
	}
	return name, "[g]checkout [d]details [f]fetch [p]pull [P]push", "[arrows]move"
}

// OnKey routes one key event. Navigation always runs first; pagination
// is triggered when the cursor reaches the last entry while idle;
// details (d) and the full-message toggle (Tab) apply unconditionally;
// everything else is gated on the mode being idle.
func (m *Model) OnKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	avail := mode.AvailableHeight(m.height)
	m.sel.OnKey(len(m.entries), avail, msg)

	var paginateCmd tea.Cmd
	if !m.waiting && len(m.entries) > 0 && m.sel.Cursor()+1 == len(m.entries) {
		m.waiting = true
		m.op = opRefresh
		paginateCmd = m.logCmd(len(m.entries))
	}

	switch {
	case isRune(msg, 'd'):
		if m.sel.Cursor() < len(m.entries) {
			hash := m.entries[m.sel.Cursor()].Hash
			changeCmd := func() tea.Msg { return mode.ChangeMsg{Kind: mode.RevisionDetails, Revision: hash} }
			if paginateCmd != nil {
				return false, tea.Batch(paginateCmd, changeCmd)
			}
			return false, changeCmd
		}
		return false, paginateCmd
	case msg.Type == tea.KeyTab:
		m.showFull = !m.showFull
		return false, paginateCmd
	}

	if !m.waiting {
		switch {
		case isRune(msg, 'g'):
			if m.sel.Cursor() < len(m.entries) {
				revision := m.entries[m.sel.Cursor()].Hash
				return false, m.actionThenRefresh(opCheckout, func(ctx context.Context) error {
					return m.services.Backend.Checkout(ctx, revision)
				})
			}
		case isRune(msg, 'm'):
			if m.sel.Cursor() < len(m.entries) {
				revision := m.entries[m.sel.Cursor()].Hash
				return false, m.actionThenRefresh(opMerge, func(ctx context.Context) error {
					return m.services.Backend.Merge(ctx, revision)
				})
			}
		case isRune(msg, 'f'):
			return false, m.actionThenRefresh(opFetch, m.services.Backend.Fetch)
		case isRune(msg, 'p'):
			return false, m.actionThenRefresh(opPull, m.services.Backend.Pull)
		case isRune(msg, 'P'):
			return false, m.actionThenRefresh(opPush, m.services.Backend.Push)
		}
	}
	return false, paginateCmd
}

// OnResponse accepts a RefreshMsg whenever the mode is waiting on
// anything; every outstanding operation in this mode resolves through
// the same response shape, so there is nothing further to discriminate.
func (m *Model) OnResponse(msg tea.Msg) tea.Cmd {
	r, ok := msg.(RefreshMsg)
	if !ok || !m.waiting {
		return nil
	}
	m.waiting = false
	m.op = opNone
	m.output.Set("")

	if r.Err != nil {
		m.entries = nil
		m.output.Set(r.Err.Error())
	} else {
		if r.StartIndex < len(m.entries) {
			m.entries = m.entries[:r.StartIndex]
		} else if r.StartIndex > len(m.entries) {
			m.entries = nil
		}
		m.entries = append(m.entries, r.Entries...)
	}
	m.sel.SaturateCursor(len(m.entries))
	return nil
}

func (m *Model) View() string {
	if m.output.Text() != "" {
		return drawer.WrapOutput(m.output.TextFromScroll(), m.width)
	}
	rows := make([]logRow, len(m.entries))
	for i, e := range m.entries {
		rows[i] = logRow{e, m.showFull}
	}
	avail := mode.AvailableHeight(m.height)
	return drawer.RenderSelectMenu(rows, m.sel.Cursor(), m.sel.Scroll(), avail, m.width)
}

type logRow struct {
	vcs.LogEntry
	showFull bool
}

func (e logRow) Render(hovered bool, width int) (string, int) {
	graphS, hashS, dateS, authorS, refsS := drawer.GraphStyle, drawer.HashStyle, drawer.DateStyle, drawer.AuthorStyle, drawer.RefsStyle
	if hovered {
		graphS, hashS, dateS, authorS, refsS = drawer.HoverStyle, drawer.HoverStyle, drawer.HoverStyle, drawer.HoverStyle, drawer.HoverStyle
	}

	author := e.Author
	if r := []rune(author); len(r) > 12 {
		author = string(r[:12])
	}
	refsText := ""
	if e.Refs != "" {
		refsText = refsS.Render("(" + e.Refs + ") ")
	}
	prefix := graphS.Render(e.Graph) + " " + hashS.Render(e.Hash) + " " + dateS.Render(e.Date) + " " +
		authorS.Render(author) + " " + refsText

	if hovered && e.showFull {
		wrapped := drawer.WrapOutput(e.Message, width)
		lines := strings.Split(wrapped, "\n")
		return prefix + "\n" + wrapped, 1 + len(lines)
	}

	message := e.Message
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	remain := width - drawer.DisplayWidth(prefix)
	return prefix + drawer.TruncateLine(message, remain), 1
}

func isRune(msg tea.KeyMsg, r rune) bool {
	c, ok := widget.Char(msg)
	return ok && c == r
}
