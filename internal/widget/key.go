package widget

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMsg is the key event type every widget's OnKey takes. Aliased so this
// package does not need to repeat the bubbletea import at every call site.
type keyMsg = tea.KeyMsg

func matchesAny(msg keyMsg, bindings ...key.Binding) bool {
	return key.Matches(msg, bindings...)
}

// IsSubmit matches spec.md's is_submit predicate: Enter (which also covers
// Ctrl-m — both are the same control code), or a literal '\n' character.
func IsSubmit(msg keyMsg) bool {
	switch msg.Type {
	case tea.KeyEnter:
		return true
	}
	return msg.Type == tea.KeyRunes && string(msg.Runes) == "\n"
}

// IsCancel matches spec.md's is_cancel predicate: Esc or Ctrl-c.
func IsCancel(msg keyMsg) bool {
	return msg.Type == tea.KeyEsc || msg.Type == tea.KeyCtrlC
}

// Char reports the rune this key event carries, if it is a plain
// character key (as opposed to a named/control key), and true.
func Char(msg keyMsg) (rune, bool) {
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		return msg.Runes[0], true
	}
	if msg.Type == tea.KeySpace {
		return ' ', true
	}
	return 0, false
}
