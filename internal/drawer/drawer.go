package drawer

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wrap"
)

// Header renders the title bar: a spinner glyph chosen from SpinnerFrames
// by tick when waiting is true, else blank, then the title, matching
// spec.md §4.7's header-bar-with-spinner ordering.
func Header(title string, width int, waiting bool, tick int) string {
	spinner := " "
	if waiting {
		spinner = SpinnerFrames[tick%len(SpinnerFrames)]
	}
	line := " " + spinner + " " + title + " "
	if width > 0 {
		line = padOrTruncate(line, width)
	}
	return HeaderStyle.Render(line)
}

// Footer renders the help bar: left help left-aligned, right help
// right-aligned, matching spec.md §4.7's "footer with left and right help
// strings".
func Footer(leftHelp, rightHelp string, width int) string {
	if width <= 0 {
		return FooterStyle.Render(leftHelp)
	}
	gap := width - runewidth.StringWidth(leftHelp) - runewidth.StringWidth(rightHelp)
	if gap < 1 {
		return FooterStyle.Render(padOrTruncate(leftHelp, width))
	}
	return FooterStyle.Render(leftHelp + strings.Repeat(" ", gap) + rightHelp)
}

// WrapOutput expands tabs to four spaces and wraps naively at width,
// matching spec.md §4.7 ("expands tabs to four spaces and wraps naively
// at the viewport width"). width <= 0 disables wrapping.
func WrapOutput(text string, width int) string {
	text = strings.ReplaceAll(text, "\t", "    ")
	if width <= 0 {
		return text
	}
	return wrap.String(text, width)
}

// TruncateLine clips a single display line to width columns, appending an
// ellipsis when it was cut, using ANSI-aware width measurement so styled
// (colored) text truncates on display columns, not byte length.
func TruncateLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(line) <= width {
		return line
	}
	if width <= 3 {
		return ansi.Truncate(line, width, "")
	}
	return ansi.Truncate(line, width, "...")
}

// DisplayWidth is ansi-aware string width, exported so a mode can budget
// remaining columns after rendering a styled prefix of its own.
func DisplayWidth(s string) int { return ansi.StringWidth(s) }

func padOrTruncate(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w > width {
		return TruncateLine(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// SelectEntry is implemented by a mode's per-row render wrapper: Render
// produces the full text for one entry (possibly multi-line, when the
// mode supports a "full" expanded rendering) and reports how many
// terminal lines it occupies, the Go-native shape of the original's
// SelectEntryDraw::draw return value (spec.md §4.7: "allows entries to
// report their own line count").
type SelectEntry interface {
	Render(hovered bool, width int) (text string, lineCount int)
}

// RenderSelectMenu draws entries[scroll:] top-down within height rows,
// highlighting the row at cursor. It stops once height rows have been
// consumed (by display line, not entry count), so multi-line entries (log
// mode's Tab-expanded commit message) are accounted for correctly.
func RenderSelectMenu[E SelectEntry](entries []E, cursor, scroll, height, width int) string {
	if height <= 0 || scroll >= len(entries) {
		return ""
	}

	var b strings.Builder
	used := 0
	for i := scroll; i < len(entries) && used < height; i++ {
		text, lineCount := entries[i].Render(i == cursor, width)
		if used > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(text)
		used += lineCount
	}
	return b.String()
}
