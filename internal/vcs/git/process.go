package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// run spawns name with args, stdin closed, and waits for it to finish.
// On success it returns stdout unmodified (runTrimmed trims it). On failure it returns stdout and
// stderr concatenated (stdout, a newline, then stderr) as the error text,
// matching how a human reading a failed git invocation in a terminal
// would see it — there is no structured exit-code/error taxonomy here.
func run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	//nolint:gosec // G204: args are fixed, backend-internal command vocabularies, not arbitrary user input
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdin = nil

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.Error); ok {
			return "", fmt.Errorf("could not spawn process '%s': %w", name, err)
		}
		var combined strings.Builder
		combined.WriteString(stdout.String())
		combined.WriteByte('\n')
		combined.WriteString(stderr.String())
		return "", errors.New(strings.TrimSpace(combined.String()))
	}

	return stdout.String(), nil
}

// runTrimmed is a convenience for the many call sites whose output is a
// single identifier (branch/tag/remote names, current revision) rather
// than a multi-line record stream.
func runTrimmed(ctx context.Context, dir string, name string, args ...string) (string, error) {
	out, err := run(ctx, dir, name, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
