// Package git provides an abstraction for git operations.
package git

import "context"

// Git defines the git operations the fleet engine issues per repository.
// Every method runs a fixed git subcommand in dir and depends only on exit
// codes and porcelain output.
type Git interface {
	// Status collects branch, dirty/untracked/staged state, and
	// ahead/behind counters for dir.
	Status(ctx context.Context, dir string) (RepoStatus, error)
	// Fetch updates all remotes and prunes deleted refs.
	Fetch(ctx context.Context, dir string) error
	// Pull fast-forwards the current branch; refuses to merge.
	Pull(ctx context.Context, dir string) error
	// Push publishes the current branch to its upstream.
	Push(ctx context.Context, dir string) error
	// Checkout switches to the specified branch in dir.
	Checkout(ctx context.Context, dir, branch string) error
	// RemoteURL returns the origin remote URL for dir.
	RemoteURL(ctx context.Context, dir string) (string, error)
}
