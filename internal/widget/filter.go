package widget

import "github.com/charmbracelet/bubbles/key"

// FilterEntry is implemented by anything a Filter can fuzzy-match against.
type FilterEntry interface {
	FilterText() string
}

// Filter owns a ReadLine and the resulting visible_indices subsequence
// into whatever entry slice the mode passes to Apply. visible_indices is
// always a strictly increasing list of indices < len(entries).
type Filter struct {
	hasFocus       bool
	readline       ReadLine
	visibleIndices []int
	matcher        FuzzyMatcher
}

// Clear drops focus, clears the pattern, and empties visible_indices.
func (f *Filter) Clear() {
	f.hasFocus = false
	f.readline.Clear()
	f.visibleIndices = f.visibleIndices[:0]
}

// Enter gives the filter input focus with an empty pattern.
func (f *Filter) Enter() {
	f.hasFocus = true
	f.readline.Clear()
}

// OnKey routes a key while focused: submit or another Ctrl-f drops focus
// keeping the pattern; cancel drops focus and clears the pattern;
// everything else edits the readline.
func (f *Filter) OnKey(msg keyMsg) {
	if IsSubmit(msg) || matchesAny(msg, keyCtrlFBinding) {
		f.hasFocus = false
	} else if IsCancel(msg) {
		f.hasFocus = false
		f.readline.Clear()
	} else {
		f.readline.OnKey(msg)
	}
}

// Apply recomputes visible_indices by fuzzy-matching entries against the
// current pattern, then relocates the real entry index that was under
// cursor (an index into the *previous* visible_indices) and returns its
// new position in the rebuilt list, or 0 if it is no longer visible.
func Apply[E FilterEntry](f *Filter, entries []E, cursor int) int {
	entryIndex := 0
	if cursor >= 0 && cursor < len(f.visibleIndices) {
		entryIndex = f.visibleIndices[cursor]
	}

	f.visibleIndices = f.visibleIndices[:0]
	for i, e := range entries {
		if f.matcher.Matches(e.FilterText(), f.readline.Input()) {
			f.visibleIndices = append(f.visibleIndices, i)
		}
	}

	for pos, idx := range f.visibleIndices {
		if idx == entryIndex {
			return pos
		}
	}
	return 0
}

// OnRemoveEntry excises entryIndex from visible_indices (if present) and
// decrements every greater index, keeping visible_indices consistent with
// an entry having been removed from the owning slice.
func (f *Filter) OnRemoveEntry(entryIndex int) {
	for i := len(f.visibleIndices) - 1; i >= 0; i-- {
		switch {
		case entryIndex < f.visibleIndices[i]:
			f.visibleIndices[i]--
		case entryIndex == f.visibleIndices[i]:
			f.visibleIndices = append(f.visibleIndices[:i], f.visibleIndices[i+1:]...)
		default:
			return
		}
	}
}

// GetVisibleIndex maps a cursor position to the real entry index, if any.
func (f *Filter) GetVisibleIndex(index int) (int, bool) {
	if index < 0 || index >= len(f.visibleIndices) {
		return 0, false
	}
	return f.visibleIndices[index], true
}

// VisibleIndices returns the current strictly-increasing subsequence.
func (f *Filter) VisibleIndices() []int { return f.visibleIndices }

// IsFiltering reports whether the filter is focused or has a non-empty
// pattern (i.e. whether it is currently narrowing the entry list).
func (f *Filter) IsFiltering() bool {
	return f.hasFocus || f.readline.Input() != ""
}

// HasFocus reports whether the filter's readline currently owns keystrokes.
func (f *Filter) HasFocus() bool { return f.hasFocus }

// Pattern returns the current filter text.
func (f *Filter) Pattern() string { return f.readline.Input() }

var keyCtrlFBinding = key.NewBinding(key.WithKeys("ctrl+f"))
