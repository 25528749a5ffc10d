// Package worker turns a blocking vcs.Backend call into a tea.Cmd: the
// bubbletea runtime spawns it on its own goroutine (spec.md §4.8's "worker
// pool" with no hand-rolled bound — parallel spawns are intentional), and
// its single result comes back as exactly one typed tea.Msg.
package worker

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/kestrel-tools/vcsview/internal/applog"
)

// Run wraps fn in a tea.Cmd, tagging the call with a fresh request id for
// log correlation (grounded in the teacher's use of google/uuid to
// correlate spawned job/session log lines). wrap turns the call's result
// and error into the tea.Msg the owning mode's Update expects.
func Run[T any](op string, fn func(ctx context.Context) (T, error), wrap func(T, error) tea.Msg) tea.Cmd {
	id := uuid.NewString()
	return func() tea.Msg {
		start := time.Now()
		applog.Debug(applog.CatWorker, "job started", "op", op, "request_id", id)

		result, err := fn(context.Background())

		if err != nil {
			applog.Warn(applog.CatWorker, "job failed", "op", op, "request_id", id,
				"elapsed_ms", time.Since(start).Milliseconds(), "error", err)
		} else {
			applog.Debug(applog.CatWorker, "job finished", "op", op, "request_id", id,
				"elapsed_ms", time.Since(start).Milliseconds())
		}

		return wrap(result, err)
	}
}

// RunErr is Run narrowed to backend calls that return only an error
// (commit, discard, checkout, merge, fetch/pull/push, new/delete
// branch/tag).
func RunErr(op string, fn func(ctx context.Context) error, wrap func(error) tea.Msg) tea.Cmd {
	return Run(op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, func(_ struct{}, err error) tea.Msg {
		return wrap(err)
	})
}
