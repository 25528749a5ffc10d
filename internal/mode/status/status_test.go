package status

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-tools/vcsview/internal/mode"
	"github.com/kestrel-tools/vcsview/internal/vcs"
)

// fakeBackend implements vcs.Backend with scripted results, recording the
// arguments each call received.
type fakeBackend struct {
	statusInfo vcs.StatusInfo
	statusErr  error

	commitMessage string
	commitEntries []vcs.RevisionEntry
	commitErr     error

	discardEntries []vcs.RevisionEntry
	discardErr     error

	diffEntries []vcs.RevisionEntry
	diffText    string
	diffErr     error
}

func (f *fakeBackend) Status(context.Context) (vcs.StatusInfo, error) { return f.statusInfo, f.statusErr }
func (f *fakeBackend) Commit(_ context.Context, message string, entries []vcs.RevisionEntry) error {
	f.commitMessage = message
	f.commitEntries = entries
	return f.commitErr
}
func (f *fakeBackend) Discard(_ context.Context, entries []vcs.RevisionEntry) error {
	f.discardEntries = entries
	return f.discardErr
}
func (f *fakeBackend) Diff(_ context.Context, _ string, entries []vcs.RevisionEntry) (string, error) {
	f.diffEntries = entries
	return f.diffText, f.diffErr
}
func (f *fakeBackend) ResolveTakingOurs(context.Context, []vcs.RevisionEntry) error   { return nil }
func (f *fakeBackend) ResolveTakingTheirs(context.Context, []vcs.RevisionEntry) error { return nil }
func (f *fakeBackend) Log(context.Context, int, int) (int, []vcs.LogEntry, error)     { return 0, nil, nil }
func (f *fakeBackend) Checkout(context.Context, string) error                        { return nil }
func (f *fakeBackend) CheckoutBranch(context.Context, vcs.BranchEntry) error         { return nil }
func (f *fakeBackend) CheckoutTag(context.Context, vcs.TagEntry) error               { return nil }
func (f *fakeBackend) Merge(context.Context, string) error                          { return nil }
func (f *fakeBackend) MergeBranch(context.Context, vcs.BranchEntry) error            { return nil }
func (f *fakeBackend) Fetch(context.Context) error                                  { return nil }
func (f *fakeBackend) Pull(context.Context) error                                   { return nil }
func (f *fakeBackend) Push(context.Context) error                                   { return nil }
func (f *fakeBackend) RevisionDetails(context.Context, string) (vcs.RevisionInfo, error) {
	return vcs.RevisionInfo{}, nil
}
func (f *fakeBackend) Branches(context.Context) ([]vcs.BranchEntry, error) { return nil, nil }
func (f *fakeBackend) NewBranch(context.Context, string) error             { return nil }
func (f *fakeBackend) DeleteBranch(context.Context, string) error         { return nil }
func (f *fakeBackend) Tags(context.Context) ([]vcs.TagEntry, error)        { return nil, nil }
func (f *fakeBackend) NewTag(context.Context, string) error                { return nil }
func (f *fakeBackend) DeleteTag(context.Context, string) error             { return nil }

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestEnterCoalescesRepeatRefresh(t *testing.T) {
	m := New(mode.Services{Backend: &fakeBackend{}})
	require.NotNil(t, m.Enter())
	assert.Nil(t, m.Enter(), "a refresh already in flight must not spawn a second one")
}

func TestFreshStatusNoChanges(t *testing.T) {
	backend := &fakeBackend{statusInfo: vcs.StatusInfo{Header: "clean"}}
	m := New(mode.Services{Backend: backend})

	cmd := m.Enter()
	msg := runCmd(t, cmd).(RefreshMsg)
	m.OnResponse(msg)

	assert.False(t, m.IsWaitingResponse())
	assert.Empty(t, m.entries)
	view := m.View()
	assert.Contains(t, view, "clean")
	assert.Contains(t, view, "nothing to commit!")
}

func TestCommitOfTwoSelectedEntries(t *testing.T) {
	backend := &fakeBackend{
		statusInfo: vcs.StatusInfo{
			Header: "3 changed",
			Entries: []vcs.RevisionEntry{
				{Name: "a.txt", Status: vcs.Modified},
				{Name: "b.txt", Status: vcs.Added},
				{Name: "c.txt", Status: vcs.Modified},
			},
		},
	}
	m := New(mode.Services{Backend: backend})
	m.OnResponse(runCmd(t, m.Enter()))
	require.Len(t, m.entries, 3)

	m.entries[0].Selected = true
	m.entries[2].Selected = true

	_, cmd := m.OnKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.Nil(t, cmd, "opening the commit prompt runs no backend call")
	assert.Equal(t, stateCommitInput, m.state)

	for _, r := range "msg" {
		m.OnKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd = m.OnKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, stateWaitingCommit, m.state)

	// Committed entries were removed from the local list immediately.
	require.Len(t, m.entries, 1)
	assert.Equal(t, "b.txt", m.entries[0].Name)

	// cmd wraps a tea.Sequence so the log mode-change is guaranteed to be
	// seen before the commit's own response; bubbletea's sequencing
	// message type is unexported, so this only checks a command was
	// actually produced rather than decoding its internal wire shape.
	require.NotNil(t, cmd)

	m.OnResponse(CommitMsg{Err: nil})
	assert.Equal(t, stateIdle, m.state)
	assert.Len(t, m.entries, 1, "uncommitted entry must survive a successful commit")
}

func TestCommitErrorClearsLocalList(t *testing.T) {
	backend := &fakeBackend{commitErr: errors.New("commit failed")}
	m := New(mode.Services{Backend: backend})
	m.entries = []vcs.SelectableRevisionEntry{{Name: "a.txt", Status: vcs.Modified}}
	m.state = stateWaitingCommit

	m.OnResponse(CommitMsg{Err: errors.New("commit failed")})
	assert.Equal(t, stateIdle, m.state)
	assert.Empty(t, m.entries)
	assert.Contains(t, m.output.Text(), "commit failed")
}

func TestToggleAllIsInvolution(t *testing.T) {
	m := New(mode.Services{Backend: &fakeBackend{}})
	m.entries = []vcs.SelectableRevisionEntry{
		{Name: "a", Selected: true},
		{Name: "b", Selected: false},
		{Name: "c", Selected: true},
	}
	before := append([]vcs.SelectableRevisionEntry(nil), m.entries...)

	m.toggleAll()
	m.toggleAll()

	assert.Equal(t, before, m.entries)
}

func TestStaleResponseDropped(t *testing.T) {
	m := New(mode.Services{Backend: &fakeBackend{}})
	m.state = stateIdle
	m.OnResponse(CommitMsg{Err: errors.New("late")})
	assert.Equal(t, stateIdle, m.state)
	assert.Empty(t, m.output.Text(), "a response that doesn't match the outstanding operation is dropped")
}

func TestCancelDuringCommitInputReRefreshes(t *testing.T) {
	backend := &fakeBackend{statusInfo: vcs.StatusInfo{Header: "clean"}}
	m := New(mode.Services{Backend: backend})
	m.state = stateCommitInput
	m.readline.OnKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	_, cmd := m.OnKey(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, stateWaitingRefresh, m.state)
	assert.Empty(t, m.readline.Input())
}
