package widget

import tea "github.com/charmbracelet/bubbletea"

// SelectAction is what a key press asked the owning mode to do to its
// entry list; SelectMenu itself never touches entries, since different
// modes keep differently-shaped entry slices.
type SelectAction int

const (
	SelectNone SelectAction = iota
	SelectToggle
	SelectToggleAll
)

// SelectMenu tracks a cursor and scroll offset over a list the mode owns.
// The invariant held after every OnKey call: cursor < max(1, n) and
// scroll <= cursor < scroll+availableHeight (when availableHeight > 0).
type SelectMenu struct {
	cursor int
	scroll int
}

func (s *SelectMenu) Cursor() int { return s.cursor }
func (s *SelectMenu) Scroll() int { return s.scroll }

// SetCursor forces the cursor to an exact value without bounds-checking
// against an entry count; callers that know the new count call
// SaturateCursor immediately after.
func (s *SelectMenu) SetCursor(c int) { s.cursor = c }

// SaturateCursor clamps the cursor into [0, n-1] after an entry list
// changes size out from under an unchanged cursor (e.g. after a refresh).
func (s *SelectMenu) SaturateCursor(n int) {
	if n == 0 {
		s.cursor = 0
		return
	}
	if s.cursor > n-1 {
		s.cursor = n - 1
	}
}

// OnRemoveEntry adjusts the cursor when the entry at index is removed from
// the owning mode's list.
func (s *SelectMenu) OnRemoveEntry(index int) {
	if index <= s.cursor {
		s.cursor = saturatingSub(s.cursor, 1)
	}
}

// OnKey moves the cursor in response to a navigation key and reports which
// selection action (if any) the key requested. entriesLen is the number of
// currently visible entries; availableHeight is the viewport rows given to
// this list.
func (s *SelectMenu) OnKey(entriesLen, availableHeight int, msg keyMsg) SelectAction {
	halfHeight := availableHeight / 2

	switch {
	case matchesAny(msg, keyDown, keyCtrlN, keyCharJ):
		s.cursor++
	case matchesAny(msg, keyUp, keyCtrlP, keyCharK):
		s.cursor = saturatingSub(s.cursor, 1)
	case matchesAny(msg, keyCtrlH, keyHome):
		s.cursor = 0
	case matchesAny(msg, keyCtrlE, keyEnd):
		s.cursor = maxInt
	case matchesAny(msg, keyCtrlD, keyPageDown):
		s.cursor += halfHeight
	case matchesAny(msg, keyCtrlU, keyPageUp):
		s.cursor = saturatingSub(s.cursor, halfHeight)
	}

	if entriesLen == 0 {
		s.cursor = 0
	} else if s.cursor > entriesLen-1 {
		s.cursor = entriesLen - 1
	}
	s.scrollToCursor(availableHeight)

	if c, ok := Char(msg); ok && c == ' ' && s.cursor < entriesLen {
		return SelectToggle
	}
	if msg.Type == tea.KeyRunes && string(msg.Runes) == "a" {
		return SelectToggleAll
	}
	return SelectNone
}

// FixCursorOnFilter repositions the cursor to a specific (already
// recomputed) value after a Filter re-filter, then re-clamps scroll.
func (s *SelectMenu) FixCursorOnFilter(cursor, availableHeight int) {
	s.cursor = cursor
	s.scrollToCursor(availableHeight)
}

func (s *SelectMenu) scrollToCursor(availableHeight int) {
	if s.cursor < s.scroll {
		s.scroll = s.cursor
	} else if s.cursor >= s.scroll+availableHeight {
		s.scroll = s.cursor + 1 - availableHeight
	}
}
