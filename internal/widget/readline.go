package widget

import (
	tea "github.com/charmbracelet/bubbletea"
	"unicode"
)

// ReadLine is a single-line Unicode text editor. It does not interpret
// submit/cancel itself; the enclosing mode tests IsSubmit/IsCancel before
// or after delegating a key to OnKey.
type ReadLine struct {
	input []rune
}

// Clear empties the input.
func (r *ReadLine) Clear() { r.input = r.input[:0] }

// Input returns the current text.
func (r *ReadLine) Input() string { return string(r.input) }

// OnKey applies one edit operation.
func (r *ReadLine) OnKey(msg keyMsg) {
	switch {
	case msg.Type == tea.KeyHome || msg.Type == tea.KeyCtrlU:
		r.Clear()
	case msg.Type == tea.KeyCtrlW:
		r.deleteTrailingWord()
	case msg.Type == tea.KeyBackspace || msg.Type == tea.KeyCtrlH:
		if len(r.input) > 0 {
			r.input = r.input[:len(r.input)-1]
		}
	default:
		if c, ok := Char(msg); ok {
			r.input = append(r.input, c)
		}
	}
}

func isWordRune(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

// deleteTrailingWord implements spec.md §4.5's Ctrl-w: if the trailing
// character is a word character, delete back to the previous non-word
// boundary; if it is whitespace, delete just the trailing whitespace run (a
// second Ctrl-w then deletes the word before it); otherwise delete a
// trailing run of "other" (punctuation) characters. Boundaries are found by
// scanning backward from the end, mirroring the original's rfind-based
// implementation.
func (r *ReadLine) deleteTrailingWord() {
	if len(r.input) == 0 {
		return
	}
	last := r.input[len(r.input)-1]

	var stop func(rune) bool
	switch {
	case isWordRune(last):
		stop = func(c rune) bool { return !isWordRune(c) }
	case unicode.IsSpace(last):
		stop = func(c rune) bool { return isWordRune(c) || !unicode.IsSpace(c) }
	default:
		stop = func(c rune) bool { return isWordRune(c) || unicode.IsSpace(c) }
	}

	cut := 0
	for i := len(r.input) - 1; i >= 0; i-- {
		if stop(r.input[i]) {
			cut = i + 1
			break
		}
	}
	r.input = r.input[:cut]
}
