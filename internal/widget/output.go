// Package widget holds the small stateful primitives shared by every mode:
// a scrollable text pane, a line editor, a cursor/scroll select list, and a
// fuzzy filter over that list. Each type owns exactly the state spec.md §3
// names for it and nothing else.
package widget

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

// Output is a read-only scrollable text pane. Set() replaces the text and
// resets scroll to the top; On_key advances or retreats scroll by the
// exact formulas the original tool used, so Ctrl-d/Ctrl-u page by half the
// viewport height the same way vim-style pagers do.
type Output struct {
	text      string
	lineCount int
	scroll    int

	vp viewport.Model
}

// Set replaces the displayed text, recomputing line count and resetting
// scroll to zero.
func (o *Output) Set(text string) {
	o.text = text
	if text == "" {
		o.lineCount = 0
	} else {
		o.lineCount = strings.Count(text, "\n") + 1
	}
	o.scroll = 0
}

// Text returns the full underlying text.
func (o *Output) Text() string { return o.text }

// LineCount returns the number of lines in Text.
func (o *Output) LineCount() int { return o.lineCount }

// Scroll returns the current top-of-viewport line offset.
func (o *Output) Scroll() int { return o.scroll }

// LinesFromScroll returns the text's lines starting at the current scroll
// offset, for a drawer to render top-down.
func (o *Output) LinesFromScroll() []string {
	if o.text == "" {
		return nil
	}
	lines := strings.Split(o.text, "\n")
	if o.scroll >= len(lines) {
		return nil
	}
	return lines[o.scroll:]
}

// TextFromScroll joins LinesFromScroll back into a single string, for a
// mode to pass straight to drawer.WrapOutput so the pane actually honors
// its scroll offset instead of always rendering from the top.
func (o *Output) TextFromScroll() string {
	return strings.Join(o.LinesFromScroll(), "\n")
}

// OnKey advances scroll in response to a navigation key. availableHeight is
// the number of rows the output pane has to draw into; scroll is clamped
// to [0, max(0, lineCount-availableHeight)] afterward, satisfying the
// invariant every mode relies on.
func (o *Output) OnKey(availableHeight int, msg keyMsg) {
	halfHeight := availableHeight / 2

	switch {
	case matchesAny(msg, keyDown, keyCtrlN, keyCharJ):
		o.scroll++
	case matchesAny(msg, keyUp, keyCtrlP, keyCharK):
		o.scroll = saturatingSub(o.scroll, 1)
	case matchesAny(msg, keyCtrlH, keyHome):
		o.scroll = 0
	case matchesAny(msg, keyCtrlE, keyEnd):
		o.scroll = maxInt
	case matchesAny(msg, keyCtrlD, keyPageDown):
		o.scroll += halfHeight
	case matchesAny(msg, keyCtrlU, keyPageUp):
		o.scroll = saturatingSub(o.scroll, halfHeight)
	}

	maxScroll := saturatingSub(o.lineCount, availableHeight)
	if o.scroll > maxScroll {
		o.scroll = maxScroll
	}
	if o.scroll < 0 {
		o.scroll = 0
	}

	o.vp.Width = 0 // viewport used only for view sync below; width is set by the drawer
	o.vp.SetContent(o.text)
	o.vp.YOffset = o.scroll
}

const maxInt = int(^uint(0) >> 1)

func saturatingSub(a, b int) int {
	if a < b {
		return 0
	}
	return a - b
}

// viewport exposes the underlying bubbles viewport for a drawer that wants
// its wrapping/rendering helpers once width/height are set.
func (o *Output) Viewport() *viewport.Model { return &o.vp }

// keybinding tables shared by Output and SelectMenu navigation, grounded
// on the teacher's internal/keys package (bubbles/key binding tables).
var (
	keyDown     = key.NewBinding(key.WithKeys("down"))
	keyUp       = key.NewBinding(key.WithKeys("up"))
	keyCtrlN    = key.NewBinding(key.WithKeys("ctrl+n"))
	keyCtrlP    = key.NewBinding(key.WithKeys("ctrl+p"))
	keyCharJ    = key.NewBinding(key.WithKeys("j"))
	keyCharK    = key.NewBinding(key.WithKeys("k"))
	keyCtrlH    = key.NewBinding(key.WithKeys("ctrl+h"))
	keyHome     = key.NewBinding(key.WithKeys("home"))
	keyCtrlE    = key.NewBinding(key.WithKeys("ctrl+e"))
	keyEnd      = key.NewBinding(key.WithKeys("end"))
	keyCtrlD    = key.NewBinding(key.WithKeys("ctrl+d"))
	keyPageDown = key.NewBinding(key.WithKeys("pgdown"))
	keyCtrlU    = key.NewBinding(key.WithKeys("ctrl+u"))
	keyPageUp   = key.NewBinding(key.WithKeys("pgup"))
)
