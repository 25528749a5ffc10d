package widget

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func typeString(r *ReadLine, s string) {
	for _, c := range s {
		r.OnKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{c}})
	}
}

func TestReadLine_TypingAppends(t *testing.T) {
	var r ReadLine
	typeString(&r, "hello")
	assert.Equal(t, "hello", r.Input())
}

func TestReadLine_BackspaceRemovesLastRune(t *testing.T) {
	var r ReadLine
	typeString(&r, "hello")
	r.OnKey(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "hell", r.Input())
}

func TestReadLine_BackspaceOnEmptyIsNoop(t *testing.T) {
	var r ReadLine
	r.OnKey(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "", r.Input())
}

func TestReadLine_HomeAndCtrlUClear(t *testing.T) {
	var r ReadLine
	typeString(&r, "hello")
	r.OnKey(tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, "", r.Input())

	typeString(&r, "world")
	r.OnKey(tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.Equal(t, "", r.Input())
}

func TestReadLine_CtrlWDeletesTrailingWord(t *testing.T) {
	var r ReadLine
	typeString(&r, "foo bar")
	r.OnKey(tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Equal(t, "foo ", r.Input())
}

func TestReadLine_CtrlWOnTrailingWhitespaceOnlyTrimsWhitespace(t *testing.T) {
	var r ReadLine
	typeString(&r, "foo bar  ")
	r.OnKey(tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Equal(t, "foo bar", r.Input(), "a trailing whitespace run is removed on its own")

	r.OnKey(tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Equal(t, "foo ", r.Input(), "a second Ctrl-w then deletes the word before it")
}

func TestReadLine_CtrlWOnPunctuationDeletesPunctuationRun(t *testing.T) {
	var r ReadLine
	typeString(&r, "foo...")
	r.OnKey(tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Equal(t, "foo", r.Input())
}

func TestReadLine_CtrlWOnEmptyIsNoop(t *testing.T) {
	var r ReadLine
	r.OnKey(tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Equal(t, "", r.Input())
}

func TestReadLine_ClearEmptiesInput(t *testing.T) {
	var r ReadLine
	typeString(&r, "hello")
	r.Clear()
	assert.Equal(t, "", r.Input())
}

func TestReadLine_SpaceKeyTypesALiteralSpace(t *testing.T) {
	var r ReadLine
	typeString(&r, "foo")
	r.OnKey(tea.KeyMsg{Type: tea.KeySpace})
	typeString(&r, "bar")
	assert.Equal(t, "foo bar", r.Input())
}

// TestReadLine_CtrlWNeverGrowsInput checks Ctrl-w is always
// length-non-increasing, regardless of what is currently typed.
func TestReadLine_CtrlWNeverGrowsInput(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringMatching(`[a-zA-Z0-9_ .,!?]{0,20}`).Draw(rt, "s")

		var r ReadLine
		typeString(&r, s)
		before := len([]rune(r.Input()))
		r.OnKey(tea.KeyMsg{Type: tea.KeyCtrlW})
		after := len([]rune(r.Input()))

		require.LessOrEqual(rt, after, before)
	})
}

func TestReadLine_BackspaceAfterTypingIsAlwaysOneShorter(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringMatching(`[a-zA-Z0-9]{1,20}`).Draw(rt, "s")

		var r ReadLine
		typeString(&r, s)
		before := len([]rune(r.Input()))
		r.OnKey(tea.KeyMsg{Type: tea.KeyBackspace})
		after := len([]rune(r.Input()))

		require.Equal(rt, before-1, after)
	})
}
