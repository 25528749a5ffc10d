package vcs

import "context"

// Backend is the capability interface a mode consumes. Implementations are
// expected to be safe for concurrent use: the core calls these methods
// from worker goroutines, potentially several at once (status, log, and a
// commit can run in parallel).
//
// Every operation is blocking from the caller's perspective; it is the
// caller's job (internal/worker) to run it off the UI goroutine. Errors
// carry exactly the text a human operator would want to read — there is no
// structured error taxonomy beyond success/failure.
type Backend interface {
	Status(ctx context.Context) (StatusInfo, error)
	Commit(ctx context.Context, message string, entries []RevisionEntry) error
	Discard(ctx context.Context, entries []RevisionEntry) error
	Diff(ctx context.Context, revision string, entries []RevisionEntry) (string, error)
	ResolveTakingOurs(ctx context.Context, entries []RevisionEntry) error
	ResolveTakingTheirs(ctx context.Context, entries []RevisionEntry) error

	// Log returns effectiveSkip, the number of entries the caller should
	// keep from its existing list before appending the returned page.
	// effectiveSkip < skip means the backend could not honor the
	// requested skip and restarted from an earlier point.
	Log(ctx context.Context, skip, length int) (effectiveSkip int, entries []LogEntry, err error)

	Checkout(ctx context.Context, revision string) error
	CheckoutBranch(ctx context.Context, branch BranchEntry) error
	CheckoutTag(ctx context.Context, tag TagEntry) error
	Merge(ctx context.Context, revision string) error
	MergeBranch(ctx context.Context, branch BranchEntry) error
	Fetch(ctx context.Context) error
	Pull(ctx context.Context) error
	Push(ctx context.Context) error

	RevisionDetails(ctx context.Context, revision string) (RevisionInfo, error)

	Branches(ctx context.Context) ([]BranchEntry, error)
	NewBranch(ctx context.Context, name string) error
	DeleteBranch(ctx context.Context, name string) error

	Tags(ctx context.Context) ([]TagEntry, error)
	NewTag(ctx context.Context, name string) error
	DeleteTag(ctx context.Context, name string) error
}
