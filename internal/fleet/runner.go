package fleet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/colonyops/flotilla/internal/core/git"
)

// Runner executes a single task and reports its outcome. A Runner never
// returns an error: failures are encoded in the Result.
type Runner interface {
	Run(ctx context.Context, t Task) Result
}

// GitRunner executes tasks against real repositories through a git.Git.
// After a mutating operation it re-reads status in the same task, so every
// completion carries current branch/dirty/ahead/behind data.
type GitRunner struct {
	git git.Git
	log zerolog.Logger
}

// NewGitRunner creates a runner backed by the given git executor.
func NewGitRunner(g git.Git, log zerolog.Logger) *GitRunner {
	return &GitRunner{git: g, log: log}
}

func (r *GitRunner) Run(ctx context.Context, t Task) Result {
	res := Result{Repo: t.Repo, Op: t.Op}

	// Fail fast on a missing worktree rather than letting git report a
	// confusing chdir error. ".git" may be a file for linked worktrees;
	// existence is enough.
	if _, err := os.Stat(filepath.Join(t.Repo, ".git")); err != nil {
		res.Fail = FailRepoUnavailable
		res.Message = "not a git repository"
		return res
	}

	var err error
	switch t.Op {
	case OpRefresh:
		// status only, handled below
	case OpFetch:
		err = r.git.Fetch(ctx, t.Repo)
	case OpPull:
		err = r.git.Pull(ctx, t.Repo)
	case OpPush:
		err = r.git.Push(ctx, t.Repo)
	case OpSync:
		err = r.sync(ctx, t.Repo)
	case OpCheckout:
		err = r.git.Checkout(ctx, t.Repo, t.Branch)
	default:
		res.Fail = FailGitCommandFailed
		res.Message = fmt.Sprintf("unsupported operation %q", t.Op)
		return res
	}

	if err == nil {
		res.Status, err = r.git.Status(ctx, t.Repo)
	}
	if err != nil {
		res.Fail, res.Message = classify(err)
		r.log.Debug().
			Str("repo", t.Repo).
			Str("op", t.Op.String()).
			Str("kind", res.Fail.String()).
			Msg("task failed")
	}
	return res
}

// sync chains fetch, ff-only pull, and push; the first failure wins.
func (r *GitRunner) sync(ctx context.Context, dir string) error {
	if err := r.git.Fetch(ctx, dir); err != nil {
		return err
	}
	if err := r.git.Pull(ctx, dir); err != nil {
		return err
	}
	return r.git.Push(ctx, dir)
}

// classify maps an operation error onto the failure taxonomy.
func classify(err error) (FailKind, string) {
	var parseErr *git.ParseError
	var exitErr *exec.ExitError
	var pathErr *os.PathError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FailTimedOut, "timed out"
	case errors.Is(err, context.Canceled):
		return FailCancelled, "cancelled"
	case errors.As(err, &parseErr):
		return FailParseError, err.Error()
	case errors.As(err, &exitErr):
		return FailGitCommandFailed, err.Error()
	case errors.As(err, &pathErr), errors.Is(err, exec.ErrNotFound):
		return FailRepoUnavailable, err.Error()
	default:
		return FailGitCommandFailed, err.Error()
	}
}
