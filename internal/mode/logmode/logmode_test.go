package logmode

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

type fakeBackend struct {
	vcs.Backend
	pages map[int][]vcs.LogEntry
	err   error

	checkoutRevision string
}

func (f *fakeBackend) Log(_ context.Context, skip, length int) (int, []vcs.LogEntry, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return skip, f.pages[skip], nil
}

func (f *fakeBackend) Checkout(_ context.Context, revision string) error {
	f.checkoutRevision = revision
	return nil
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func fiveEntries() []vcs.LogEntry {
	return []vcs.LogEntry{
		{Hash: "h0", Message: "zero"},
		{Hash: "h1", Message: "one"},
		{Hash: "h2", Message: "two"},
		{Hash: "h3", Message: "three"},
		{Hash: "h4", Message: "four"},
	}
}

func TestLogPagination(t *testing.T) {
	backend := &fakeBackend{pages: map[int][]vcs.LogEntry{
		0: fiveEntries(),
		5: {{Hash: "h5"}, {Hash: "h6"}, {Hash: "h7"}},
	}}
	m := New(mode.Services{Backend: backend})
	m.SetSize(80, 24)

	m.OnResponse(runCmd(t, m.Enter()))
	require.Len(t, m.entries, 5)

	for i := 0; i < 3; i++ {
		m.OnKey(tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, 3, m.sel.Cursor())

	_, cmd := m.OnKey(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 4, m.sel.Cursor())
	require.NotNil(t, cmd, "cursor reaching the last entry must trigger pagination")
	assert.True(t, m.waiting)

	m.OnResponse(runCmd(t, cmd))
	assert.Len(t, m.entries, 8)
	assert.Equal(t, "h7", m.entries[7].Hash)
}

func TestLogActionFailureClearsEntries(t *testing.T) {
	backend := &fakeBackend{err: errors.New("checkout failed")}
	m := New(mode.Services{Backend: backend})
	m.SetSize(80, 24)
	m.entries = fiveEntries()

	_, cmd := m.OnKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	require.NotNil(t, cmd)

	m.OnResponse(runCmd(t, cmd))
	assert.Equal(t, "h0", backend.checkoutRevision)
	assert.Empty(t, m.entries)
	assert.Contains(t, m.output.Text(), "checkout failed")
	assert.False(t, m.waiting)
}

func TestDetailsKeyAlwaysFires(t *testing.T) {
	backend := &fakeBackend{}
	m := New(mode.Services{Backend: backend})
	m.SetSize(80, 24)
	m.entries = fiveEntries()
	m.waiting = true // pretend an unrelated operation is in flight

	_, cmd := m.OnKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.NotNil(t, cmd)
	change, ok := runCmd(t, cmd).(mode.ChangeMsg)
	require.True(t, ok)
	assert.Equal(t, mode.RevisionDetails, change.Kind)
	assert.Equal(t, "h0", change.Revision)
}

func TestTabTogglesFullMessage(t *testing.T) {
	m := New(mode.Services{Backend: &fakeBackend{}})
	m.SetSize(80, 24)
	assert.False(t, m.showFull)
	m.OnKey(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.showFull)
	m.OnKey(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, m.showFull)
}
