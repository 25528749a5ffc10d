// Package drawer renders the current mode to a string lipgloss/bubbletea
// writes to the terminal each frame. It is a thin, mostly-stateless set of
// render helpers; the only state is the spinner tick the main loop
// advances on a timeout, matching spec.md §4.7's "Stateless per-frame
// renderer".
package drawer

import "github.com/charmbracelet/lipgloss"

// SpinnerFrames is the glyph sequence spec.md §4.7 names for the header's
// waiting indicator.
var SpinnerFrames = []string{"-", "\\", "|", "/"}

var (
	headerBg = lipgloss.AdaptiveColor{Light: "#F9D65C", Dark: "#F9D65C"}
	headerFg = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#1A1A1A"}

	hoverFg = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}

	hashColor   = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#DAA520"}
	dateColor   = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#4C8BF5"}
	authorColor = lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#3DBE7C"}
	refsColor   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#E06C75"}

	mutedColor  = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#9C9C9C"}
	yellowColor = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#E5C07B"}
	errorColor  = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#E06C75"}

	HeaderStyle = lipgloss.NewStyle().Background(headerBg).Foreground(headerFg).Bold(true)
	FooterStyle = lipgloss.NewStyle().Foreground(mutedColor)
	HoverStyle  = lipgloss.NewStyle().Foreground(hoverFg).Bold(true)
	MutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	YellowStyle = lipgloss.NewStyle().Foreground(yellowColor)
	ErrorStyle  = lipgloss.NewStyle().Foreground(errorColor)

	GraphStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#444444", Dark: "#CCCCCC"})
	HashStyle   = lipgloss.NewStyle().Foreground(hashColor)
	DateStyle   = lipgloss.NewStyle().Foreground(dateColor)
	AuthorStyle = lipgloss.NewStyle().Foreground(authorColor)
	RefsStyle   = lipgloss.NewStyle().Foreground(refsColor)
)

// StatusColor returns the display color for a FileStatus label, used to
// tint status-grouped rows in the status and revision-details modes.
func StatusColor(name string) lipgloss.Style {
	switch name {
	case "modified":
		return lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#E5C07B"})
	case "added", "untracked":
		return lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#3DBE7C"})
	case "deleted", "missing":
		return ErrorStyle
	case "unmerged":
		return lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#E06C75"}).Bold(true)
	default:
		return MutedStyle
	}
}
