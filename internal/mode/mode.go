// Package mode defines the shape shared by every screen (status, log,
// revision details, branches, tags): the Kind enum that names them, the
// Services bundle each one is built with, and the two messages a mode's
// own background work sends back up to the app to move between screens.
package mode

import "github.com/kestrel-tools/vcsview/internal/vcs"

// Kind names the five screens the application can be on.
type Kind int

const (
	Status Kind = iota
	Log
	RevisionDetails
	Branches
	Tags
)

func (k Kind) String() string {
	switch k {
	case Status:
		return "status"
	case Log:
		return "log"
	case RevisionDetails:
		return "revision details"
	case Branches:
		return "branches"
	case Tags:
		return "tags"
	default:
		return "?"
	}
}

// Services bundles the collaborators every mode is built with.
type Services struct {
	Backend vcs.Backend
}

// ChangeMsg asks the app to switch the active mode and call Enter on the
// destination. Realizes spec.md §4.2's ModeChange event; a mode's own
// background command emits this (for example: status emits
// ChangeMsg{Kind: Log} the instant a commit is submitted, ahead of the
// commit's own response, matching spec.md §4.3.1's "then changes mode to
// log and refreshes it").
type ChangeMsg struct {
	Kind     Kind
	Revision string // only meaningful when Kind == RevisionDetails
}

// RefreshMsg asks the app to call Enter on Kind only if it is currently
// the active mode. Realizes spec.md §4.2's ModeRefresh event.
type RefreshMsg struct {
	Kind Kind
}

// ReservedLines is the number of terminal rows withheld from a mode's
// content; the header and footer drawn around it take one row each.
// spec.md §3 requires rows >= RESERVED_LINES for any rendering
// guarantee and leaves behavior below that threshold to the drawer.
const ReservedLines = 3

// AvailableHeight returns the rows left for a mode's content after the
// header/footer, clamped to zero.
func AvailableHeight(height int) int {
	h := height - ReservedLines
	if h < 0 {
		return 0
	}
	return h
}
