// Package git implements internal/vcs.Backend by invoking the git CLI.
package git

import (
	"context"
	"strconv"
	"strings"

	"github.com/kestrel-tools/vcsview/internal/vcs"
)

// Backend is a vcs.Backend that shells out to git. It holds no mutable
// state of its own — every call spawns and waits for one or more git
// processes — so the same instance is safe to call concurrently from
// multiple worker goroutines.
type Backend struct {
	// Dir is the repository root all commands run in.
	Dir string
}

// Detect probes dir for a git repository by asking git for its toplevel.
// It returns the toplevel path and a ready Backend, or ok=false if dir is
// not inside a git working tree.
func Detect(ctx context.Context, dir string) (root string, backend *Backend, ok bool) {
	out, err := runTrimmed(ctx, dir, "git", "rev-parse", "--show-toplevel")
	if err != nil || out == "" {
		return "", nil, false
	}
	return out, &Backend{Dir: out}, true
}

var _ vcs.Backend = (*Backend)(nil)

func (b *Backend) Status(ctx context.Context) (vcs.StatusInfo, error) {
	out, err := run(ctx, b.Dir, "git", "status", "--branch", "--null")
	if err != nil {
		return vcs.StatusInfo{}, err
	}

	parts := strings.Split(out, "\x00")
	var header string
	if len(parts) > 0 {
		header = strings.TrimSpace(parts[0])
	}

	var entries []vcs.RevisionEntry
	for _, part := range parts[min(1, len(parts)):] {
		part = strings.TrimSpace(part)
		if len(part) < 2 {
			continue
		}
		status, serr := parseFileStatus(part[:2])
		if serr != nil {
			continue
		}
		entries = append(entries, vcs.RevisionEntry{
			Name:   strings.TrimSpace(part[2:]),
			Status: status,
		})
	}

	vcs.SortByStatus(entries)
	return vcs.StatusInfo{Header: header, Entries: entries}, nil
}

func (b *Backend) Commit(ctx context.Context, message string, entries []vcs.RevisionEntry) error {
	if len(entries) == 0 {
		if _, err := run(ctx, b.Dir, "git", "add", "--all"); err != nil {
			return err
		}
	} else {
		args := append([]string{"add", "--"}, entryNames(entries)...)
		if _, err := run(ctx, b.Dir, "git", args...); err != nil {
			return err
		}
	}
	_, err := run(ctx, b.Dir, "git", "commit", "-m", message)
	return err
}

func (b *Backend) Discard(ctx context.Context, entries []vcs.RevisionEntry) error {
	if len(entries) == 0 {
		if _, err := run(ctx, b.Dir, "git", "reset", "--hard"); err != nil {
			return err
		}
		_, err := run(ctx, b.Dir, "git", "clean", "-d", "--force")
		return err
	}

	var untracked, added, rest []string
	for _, e := range entries {
		switch e.Status {
		case vcs.Untracked:
			untracked = append(untracked, e.Name)
		case vcs.Added:
			added = append(added, e.Name)
		default:
			rest = append(rest, e.Name)
		}
	}

	if len(untracked) > 0 {
		args := append([]string{"clean", "--force", "--"}, untracked...)
		if _, err := run(ctx, b.Dir, "git", args...); err != nil {
			return err
		}
	}
	if len(added) > 0 {
		args := append([]string{"rm", "--force", "--"}, added...)
		if _, err := run(ctx, b.Dir, "git", args...); err != nil {
			return err
		}
	}
	if len(rest) > 0 {
		args := append([]string{"checkout", "--"}, rest...)
		if _, err := run(ctx, b.Dir, "git", args...); err != nil {
			return err
		}
	}
	return nil
}

func (b *Backend) Diff(ctx context.Context, revision string, entries []vcs.RevisionEntry) (string, error) {
	if revision != "" {
		parent := revision + "^@"
		args := []string{"diff", parent, revision}
		if len(entries) > 0 {
			args = append(args, "--")
			args = append(args, entryNames(entries)...)
		}
		return run(ctx, b.Dir, "git", args...)
	}

	if len(entries) == 0 {
		return run(ctx, b.Dir, "git", "diff", "-z")
	}
	args := append([]string{"diff", "--"}, entryNames(entries)...)
	return run(ctx, b.Dir, "git", args...)
}

func (b *Backend) ResolveTakingOurs(ctx context.Context, entries []vcs.RevisionEntry) error {
	return b.resolveTaking(ctx, "--ours", entries)
}

func (b *Backend) ResolveTakingTheirs(ctx context.Context, entries []vcs.RevisionEntry) error {
	return b.resolveTaking(ctx, "--theirs", entries)
}

func (b *Backend) resolveTaking(ctx context.Context, side string, entries []vcs.RevisionEntry) error {
	if len(entries) == 0 {
		_, err := run(ctx, b.Dir, "git", "checkout", ".", side)
		return err
	}

	var unmerged []string
	for _, e := range entries {
		if e.Status == vcs.Unmerged {
			unmerged = append(unmerged, e.Name)
		}
	}
	if len(unmerged) == 0 {
		return nil
	}

	args := append([]string{"checkout", ".", side, "--"}, unmerged...)
	_, err := run(ctx, b.Dir, "git", args...)
	return err
}

func (b *Backend) Log(ctx context.Context, skip, length int) (int, []vcs.LogEntry, error) {
	const template = "--format=format:%x00%h%x00%as%x00%aN%x00%D%x00%s"
	out, err := run(ctx, b.Dir, "git", "log", "--all", "--decorate", "--oneline", "--graph",
		"--skip", strconv.Itoa(skip), "--max-count", strconv.Itoa(length), template)
	if err != nil {
		return 0, nil, err
	}

	var entries []vcs.LogEntry
	for _, line := range splitLines(out) {
		fields := strings.SplitN(line, "\x00", 6)
		for len(fields) < 6 {
			fields = append(fields, "")
		}
		entries = append(entries, vcs.LogEntry{
			Graph:   fields[0],
			Hash:    fields[1],
			Date:    fields[2],
			Author:  fields[3],
			Refs:    fields[4],
			Message: fields[5],
		})
	}
	return skip, entries, nil
}

func (b *Backend) Checkout(ctx context.Context, revision string) error {
	_, err := run(ctx, b.Dir, "git", "checkout", revision)
	return err
}

func (b *Backend) CheckoutBranch(ctx context.Context, branch vcs.BranchEntry) error {
	return b.Checkout(ctx, branch.Name)
}

func (b *Backend) CheckoutTag(ctx context.Context, tag vcs.TagEntry) error {
	return b.Checkout(ctx, tag.Name)
}

func (b *Backend) Merge(ctx context.Context, revision string) error {
	_, err := run(ctx, b.Dir, "git", "merge", revision)
	return err
}

func (b *Backend) MergeBranch(ctx context.Context, branch vcs.BranchEntry) error {
	return b.Merge(ctx, branch.Name)
}

func (b *Backend) Fetch(ctx context.Context) error {
	_, err := run(ctx, b.Dir, "git", "fetch", "--all")
	return err
}

func (b *Backend) Pull(ctx context.Context) error {
	_, err := run(ctx, b.Dir, "git", "pull", "--all")
	return err
}

func (b *Backend) Push(ctx context.Context) error {
	_, err := run(ctx, b.Dir, "git", "push")
	return err
}

func (b *Backend) RevisionDetails(ctx context.Context, revision string) (vcs.RevisionInfo, error) {
	message, err := run(ctx, b.Dir, "git", "show", "-s", "--format=%B", revision)
	if err != nil {
		return vcs.RevisionInfo{}, err
	}
	changes, err := run(ctx, b.Dir, "git", "diff-tree", "--root", "--no-commit-id", "--name-status", "-r", "-z", revision)
	if err != nil {
		return vcs.RevisionInfo{}, err
	}

	var entries []vcs.RevisionEntry
	fields := strings.Split(changes, "\x00")
	for i := 0; i+1 < len(fields); {
		statusField := fields[i]
		if statusField == "" {
			break
		}
		status, serr := parseFileStatus(statusField)
		if serr != nil {
			i++
			continue
		}
		name := fields[i+1]
		entries = append(entries, vcs.RevisionEntry{Name: name, Status: status})
		i += 2
	}

	return vcs.RevisionInfo{Message: strings.TrimSpace(message), Entries: entries}, nil
}

func (b *Backend) Branches(ctx context.Context) ([]vcs.BranchEntry, error) {
	out, err := run(ctx, b.Dir, "git", "branch", "--list", "--all", "--format=%(refname:short)%00%(HEAD)")
	if err != nil {
		return nil, err
	}
	var entries []vcs.BranchEntry
	for _, line := range splitLines(out) {
		fields := strings.SplitN(line, "\x00", 2)
		name := fields[0]
		checkedOut := len(fields) > 1 && fields[1] == "*"
		entries = append(entries, vcs.BranchEntry{Name: name, CheckedOut: checkedOut})
	}
	return entries, nil
}

func (b *Backend) remote(ctx context.Context) (string, error) {
	return runTrimmed(ctx, b.Dir, "git", "remote")
}

func (b *Backend) NewBranch(ctx context.Context, name string) error {
	remote, err := b.remote(ctx)
	if err != nil {
		return err
	}
	if _, err := run(ctx, b.Dir, "git", "branch", name); err != nil {
		return err
	}
	if _, err := run(ctx, b.Dir, "git", "checkout", name); err != nil {
		return err
	}
	if remote == "" {
		return nil
	}
	_, err = run(ctx, b.Dir, "git", "push", "--set-upstream", remote, name)
	return err
}

func (b *Backend) DeleteBranch(ctx context.Context, name string) error {
	remote, err := b.remote(ctx)
	if err != nil {
		return err
	}
	if _, err := run(ctx, b.Dir, "git", "branch", "--delete", name); err != nil {
		return err
	}
	if remote == "" {
		return nil
	}
	_, err = run(ctx, b.Dir, "git", "push", "--delete", remote, name)
	return err
}

func (b *Backend) Tags(ctx context.Context) ([]vcs.TagEntry, error) {
	out, err := run(ctx, b.Dir, "git", "tag", "--list", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	var entries []vcs.TagEntry
	for _, line := range splitLines(out) {
		entries = append(entries, vcs.TagEntry{Name: line})
	}
	return entries, nil
}

func (b *Backend) NewTag(ctx context.Context, name string) error {
	remote, err := b.remote(ctx)
	if err != nil {
		return err
	}
	if _, err := run(ctx, b.Dir, "git", "tag", "--force", name); err != nil {
		return err
	}
	if remote == "" {
		return nil
	}
	_, err = run(ctx, b.Dir, "git", "push", remote, name)
	return err
}

func (b *Backend) DeleteTag(ctx context.Context, name string) error {
	remote, err := b.remote(ctx)
	if err != nil {
		return err
	}
	if _, err := run(ctx, b.Dir, "git", "tag", "--delete", name); err != nil {
		return err
	}
	if remote == "" {
		return nil
	}
	_, err = run(ctx, b.Dir, "git", "push", "--delete", remote, name)
	return err
}

func entryNames(entries []vcs.RevisionEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

