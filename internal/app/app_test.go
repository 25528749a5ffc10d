package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-tools/vcsview/internal/mode"
	"github.com/kestrel-tools/vcsview/internal/mode/branches"
	"github.com/kestrel-tools/vcsview/internal/mode/logmode"
	"github.com/kestrel-tools/vcsview/internal/mode/status"
	"github.com/kestrel-tools/vcsview/internal/mode/tags"
	"github.com/kestrel-tools/vcsview/internal/vcs"
)

// fakeBackend answers every vcs.Backend call with zero values; it exists
// purely to satisfy the interface so the root model can be constructed and
// driven without a real repository.
type fakeBackend struct{}

func (fakeBackend) Status(context.Context) (vcs.StatusInfo, error) { return vcs.StatusInfo{}, nil }
func (fakeBackend) Commit(context.Context, string, []vcs.RevisionEntry) error {
	return nil
}
func (fakeBackend) Discard(context.Context, []vcs.RevisionEntry) error { return nil }
func (fakeBackend) Diff(context.Context, string, []vcs.RevisionEntry) (string, error) {
	return "", nil
}
func (fakeBackend) ResolveTakingOurs(context.Context, []vcs.RevisionEntry) error   { return nil }
func (fakeBackend) ResolveTakingTheirs(context.Context, []vcs.RevisionEntry) error { return nil }
func (fakeBackend) Log(context.Context, int, int) (int, []vcs.LogEntry, error) {
	return 0, nil, nil
}
func (fakeBackend) Checkout(context.Context, string) error                { return nil }
func (fakeBackend) CheckoutBranch(context.Context, vcs.BranchEntry) error { return nil }
func (fakeBackend) CheckoutTag(context.Context, vcs.TagEntry) error       { return nil }
func (fakeBackend) Merge(context.Context, string) error                   { return nil }
func (fakeBackend) MergeBranch(context.Context, vcs.BranchEntry) error    { return nil }
func (fakeBackend) Fetch(context.Context) error                           { return nil }
func (fakeBackend) Pull(context.Context) error                            { return nil }
func (fakeBackend) Push(context.Context) error                            { return nil }
func (fakeBackend) RevisionDetails(context.Context, string) (vcs.RevisionInfo, error) {
	return vcs.RevisionInfo{}, nil
}
func (fakeBackend) Branches(context.Context) ([]vcs.BranchEntry, error) { return nil, nil }
func (fakeBackend) NewBranch(context.Context, string) error             { return nil }
func (fakeBackend) DeleteBranch(context.Context, string) error          { return nil }
func (fakeBackend) Tags(context.Context) ([]vcs.TagEntry, error)        { return nil, nil }
func (fakeBackend) NewTag(context.Context, string) error                { return nil }
func (fakeBackend) DeleteTag(context.Context, string) error             { return nil }

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestNewStartsOnStatus(t *testing.T) {
	m := New(fakeBackend{})
	require.Equal(t, mode.Status, m.current)
}

func TestWindowSizeMsgSizesEveryMode(t *testing.T) {
	m := New(fakeBackend{})

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Nil(t, cmd)
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 30, m.height)

	view := m.View()
	assert.NotEmpty(t, view, "status view should render once sized")
}

func TestChangeMsgSwitchesModeAndEnters(t *testing.T) {
	m := New(fakeBackend{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	_, cmd := m.Update(mode.ChangeMsg{Kind: mode.Branches})
	require.Equal(t, mode.Branches, m.current)
	require.NotNil(t, cmd, "switching mode issues that mode's Enter command")

	msg := runCmd(t, cmd)
	_, isRefresh := msg.(branches.RefreshMsg)
	assert.True(t, isRefresh, "branches.Enter() resolves to a branches.RefreshMsg")
}

func TestChangeMsgToRevisionDetailsCarriesRevision(t *testing.T) {
	m := New(fakeBackend{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	_, cmd := m.Update(mode.ChangeMsg{Kind: mode.RevisionDetails, Revision: "deadbeef"})
	require.Equal(t, mode.RevisionDetails, m.current)
	require.NotNil(t, cmd)
}

func TestRefreshMsgIgnoredWhenNotActive(t *testing.T) {
	m := New(fakeBackend{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	require.Equal(t, mode.Status, m.current)

	_, cmd := m.Update(mode.RefreshMsg{Kind: mode.Log})
	assert.Nil(t, cmd, "a refresh tagged for an inactive mode is dropped")
}

func TestRefreshMsgAppliesWhenActive(t *testing.T) {
	m := New(fakeBackend{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	_, cmd := m.Update(mode.RefreshMsg{Kind: mode.Status})
	require.NotNil(t, cmd, "a refresh tagged for the active mode re-enters it")
}

func TestStatusResponseRoutesToStatusMode(t *testing.T) {
	m := New(fakeBackend{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	_, cmd := m.Update(status.RefreshMsg{Info: vcs.StatusInfo{}})
	assert.Nil(t, cmd, "status.OnResponse doesn't itself issue further commands here")
}

func TestLogResponseRoutesToLogMode(t *testing.T) {
	m := New(fakeBackend{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(mode.ChangeMsg{Kind: mode.Log})

	_, cmd := m.Update(logmode.RefreshMsg{})
	assert.Nil(t, cmd)
}

func TestTagsResponseRoutesToTagsMode(t *testing.T) {
	m := New(fakeBackend{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(mode.ChangeMsg{Kind: mode.Tags})

	_, cmd := m.Update(tags.RefreshMsg{Entries: []vcs.TagEntry{{Name: "v1.0"}}})
	assert.Nil(t, cmd)

	view := m.View()
	assert.NotEmpty(t, view, "view still renders after applying a tags refresh")
}

func TestEscQuitsWhenActiveModeHasNoPendingInput(t *testing.T) {
	m := New(fakeBackend{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	// Status mode has no text-entry state on a freshly constructed model,
	// so Esc is not absorbed and falls through to the app's own quit check.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestSpinnerTicksOnlyWhileSomethingIsWaiting(t *testing.T) {
	m := New(fakeBackend{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	// Entering status leaves it waiting on its initial refresh.
	m.Init()
	_, cmd := m.Update(spinnerTickMsg{})
	assert.Equal(t, 1, m.spinnerFrame)
	assert.NotNil(t, cmd, "still waiting on the initial status refresh, so the tick re-arms")

	m.Update(status.RefreshMsg{Info: vcs.StatusInfo{}})
	_, cmd = m.Update(spinnerTickMsg{})
	assert.Nil(t, cmd, "nothing left waiting, so the tick does not re-arm")
}

func TestViewRendersHeaderBodyFooter(t *testing.T) {
	m := New(fakeBackend{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()
	assert.NotEmpty(t, view)
}

func TestViewEmptyWhileQuitting(t *testing.T) {
	m := New(fakeBackend{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.quitting = true

	assert.Empty(t, m.View())
}
