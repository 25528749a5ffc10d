package vcs

import (
	"context"
	"errors"
)

// ErrNoRepository is returned by Detect when no supported repository is
// found in or above the current working directory.
var ErrNoRepository = errors.New("no repository found in current directory")

// Detector probes dir for a repository and, if found, returns its root
// and a ready-to-use Backend. Concrete backends register themselves by
// appending to Detectors; today only git ships, but the shape keeps the
// seam open for additional backends the way the original multi-backend
// program probed git, then hg, then plastic, in order.
type Detector func(ctx context.Context, dir string) (root string, backend Backend, ok bool)

// Detectors is tried in order by Detect. internal/vcs/git registers itself
// via an init-time append in cmd/root.go, keeping this package free of a
// direct dependency on any concrete backend.
var Detectors []Detector

// Detect runs every registered Detector against dir in order, returning
// the first repository found.
func Detect(ctx context.Context, dir string) (root string, backend Backend, err error) {
	for _, d := range Detectors {
		if root, backend, ok := d(ctx, dir); ok {
			return root, backend, nil
		}
	}
	return "", nil, ErrNoRepository
}
