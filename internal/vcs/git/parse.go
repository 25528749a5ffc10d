package git

import (
	"fmt"
	"strings"

	"github.com/kestrel-tools/vcsview/internal/vcs"
)

// parseFileStatus maps a single git status/diff-tree status letter to a
// FileStatus. git emits these as the first character of a two-character
// column (`git status` porcelain output) or diff-tree `--name-status`
// output; both use the same letter vocabulary.
func parseFileStatus(s string) (vcs.FileStatus, error) {
	if s == "" {
		return vcs.Clean, fmt.Errorf("empty file status")
	}
	switch s[0] {
	case 'M':
		return vcs.Modified, nil
	case 'A':
		return vcs.Added, nil
	case 'D':
		return vcs.Deleted, nil
	case 'R':
		return vcs.Renamed, nil
	case '?':
		return vcs.Untracked, nil
	case 'C':
		return vcs.Copied, nil
	case 'U':
		return vcs.Unmerged, nil
	case ' ':
		return vcs.Clean, nil
	default:
		return vcs.Clean, fmt.Errorf("unknown file status %q", s)
	}
}

// splitLines splits on '\n', dropping a single trailing empty element
// produced by a trailing newline (git's line-oriented output is newline
// terminated).
func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
