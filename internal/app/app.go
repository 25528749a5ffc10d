// Package app wires the five mode controllers into one bubbletea root
// model: one totally ordered event stream (keys, resize, worker
// responses, mode-change/mode-refresh signals) dispatched to whichever
// mode is active, rendered through a shared header/footer frame.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kestrel-tools/vcsview/internal/drawer"
	"github.com/kestrel-tools/vcsview/internal/mode"
	"github.com/kestrel-tools/vcsview/internal/mode/branches"
	"github.com/kestrel-tools/vcsview/internal/mode/logmode"
	"github.com/kestrel-tools/vcsview/internal/mode/revdetails"
	"github.com/kestrel-tools/vcsview/internal/mode/status"
	"github.com/kestrel-tools/vcsview/internal/mode/tags"
	"github.com/kestrel-tools/vcsview/internal/vcs"
	"github.com/kestrel-tools/vcsview/internal/widget"
)

// modeModel is the shape every concrete mode controller satisfies; the
// app holds one live instance of each rather than constructing them on
// demand, matching spec.md §3's "modes are created once at startup".
type modeModel interface {
	SetSize(w, h int)
	IsWaitingResponse() bool
	Header() (title, left, right string)
	OnKey(msg tea.KeyMsg) (pendingInput bool, cmd tea.Cmd)
	OnResponse(msg tea.Msg) tea.Cmd
	View() string
}

type spinnerTickMsg struct{}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// Model is the root application model.
type Model struct {
	current mode.Kind

	status     *status.Model
	log        *logmode.Model
	revDetails *revdetails.Model
	branches   *branches.Model
	tags       *tags.Model

	width, height int
	spinnerFrame  int
	quitting      bool
}

// New builds the root model with one instance of every mode, bound to
// backend.
func New(backend vcs.Backend) *Model {
	services := mode.Services{Backend: backend}
	return &Model{
		status:     status.New(services),
		log:        logmode.New(services),
		revDetails: revdetails.New(services),
		branches:   branches.New(services),
		tags:       tags.New(services),
	}
}

func (m *Model) active() modeModel {
	switch m.current {
	case mode.Status:
		return m.status
	case mode.Log:
		return m.log
	case mode.RevisionDetails:
		return m.revDetails
	case mode.Branches:
		return m.branches
	case mode.Tags:
		return m.tags
	default:
		return m.status
	}
}

// Init starts the application on the status screen, the default per
// spec.md's ModeKind.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.status.Enter(), spinnerTick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.status.SetSize(msg.Width, msg.Height)
		m.log.SetSize(msg.Width, msg.Height)
		m.revDetails.SetSize(msg.Width, msg.Height)
		m.branches.SetSize(msg.Width, msg.Height)
		m.tags.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinnerTickMsg:
		m.spinnerFrame++
		if m.anyWaiting() {
			return m, spinnerTick()
		}
		return m, nil

	case tea.KeyMsg:
		pendingInput, cmd := m.active().OnKey(msg)
		if !pendingInput && widget.IsCancel(msg) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, cmd

	case mode.ChangeMsg:
		m.current = msg.Kind
		return m, m.enterCurrent(msg.Revision)

	case mode.RefreshMsg:
		if msg.Kind != m.current {
			return m, nil
		}
		return m, m.enterCurrent("")

	case status.RefreshMsg, status.CommitMsg, status.DiscardMsg,
		status.ResolveOursMsg, status.ResolveTheirsMsg, status.DiffMsg:
		return m, m.status.OnResponse(msg)

	case logmode.RefreshMsg:
		return m, m.log.OnResponse(msg)

	case revdetails.InfoMsg, revdetails.DiffMsg:
		return m, m.revDetails.OnResponse(msg)

	case branches.RefreshMsg, branches.CheckoutMsg, branches.MergeMsg:
		return m, m.branches.OnResponse(msg)

	case tags.RefreshMsg, tags.CheckoutMsg:
		return m, m.tags.OnResponse(msg)
	}

	return m, nil
}

// enterCurrent issues the active mode's refresh/load command. Only
// revision-details takes an argument; every other mode's Enter is niladic.
func (m *Model) enterCurrent(revision string) tea.Cmd {
	switch m.current {
	case mode.Status:
		return m.status.Enter()
	case mode.Log:
		return m.log.Enter()
	case mode.RevisionDetails:
		return m.revDetails.Enter(revision)
	case mode.Branches:
		return m.branches.Enter()
	case mode.Tags:
		return m.tags.Enter()
	default:
		return nil
	}
}

func (m *Model) anyWaiting() bool {
	return m.status.IsWaitingResponse() || m.log.IsWaitingResponse() ||
		m.revDetails.IsWaitingResponse() || m.branches.IsWaitingResponse() ||
		m.tags.IsWaitingResponse()
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	active := m.active()
	title, left, right := active.Header()

	var b []byte
	b = append(b, drawer.Header(title, m.width, active.IsWaitingResponse(), m.spinnerFrame)...)
	b = append(b, '\n')
	b = append(b, active.View()...)
	b = append(b, '\n')
	b = append(b, drawer.Footer(left, right, m.width)...)
	return string(b)
}
