package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/flotilla/pkg/executil"
)

// Executor implements Git using the git command-line tool.
type Executor struct {
	gitPath string
	exec    executil.Executor
}

// NewExecutor creates a new git executor with the specified git binary path.
func NewExecutor(gitPath string, exec executil.Executor) *Executor {
	return &Executor{gitPath: gitPath, exec: exec}
}

func (e *Executor) Status(ctx context.Context, dir string) (RepoStatus, error) {
	var status RepoStatus

	branch, err := e.branch(ctx, dir)
	if err != nil {
		return status, err
	}
	status.Branch = branch

	// Upstream presence: exit 0 means the current branch tracks a remote.
	if _, err := e.exec.RunDir(ctx, dir, e.gitPath, "rev-parse", "--abbrev-ref", "@{upstream}"); err != nil {
		if ctx.Err() != nil {
			return status, err
		}
	} else {
		status.HasUpstream = true
	}

	if status.HasUpstream {
		out, err := e.exec.RunDir(ctx, dir, e.gitPath, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
		if err != nil {
			return status, fmt.Errorf("rev-list counts: %w", err)
		}
		status.Ahead, status.Behind, err = parseAheadBehind(string(out.Stdout))
		if err != nil {
			return status, err
		}
	}

	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "status", "--porcelain")
	if err != nil {
		return status, fmt.Errorf("git status: %w", err)
	}
	status.Dirty, status.Untracked, status.Staged = parsePorcelain(string(out.Stdout))

	return status, nil
}

// branch returns the current branch name. A detached HEAD has no symbolic
// ref, so fall back to the short commit SHA.
func (e *Executor) branch(ctx context.Context, dir string) (string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "symbolic-ref", "--short", "HEAD")
	if err == nil {
		if b := strings.TrimSpace(string(out.Stdout)); b != "" {
			return b, nil
		}
	} else if ctx.Err() != nil {
		return "", err
	}

	out, err = e.exec.RunDir(ctx, dir, e.gitPath, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	if sha := strings.TrimSpace(string(out.Stdout)); sha != "" {
		return sha, nil
	}
	return "HEAD", nil
}

func (e *Executor) Fetch(ctx context.Context, dir string) error {
	if out, err := e.exec.RunDir(ctx, dir, e.gitPath, "fetch", "--all", "--prune"); err != nil {
		return wrapGitErr("fetch", out, err)
	}
	return nil
}

func (e *Executor) Pull(ctx context.Context, dir string) error {
	if out, err := e.exec.RunDir(ctx, dir, e.gitPath, "pull", "--ff-only"); err != nil {
		return wrapGitErr("pull", out, err)
	}
	return nil
}

func (e *Executor) Push(ctx context.Context, dir string) error {
	if out, err := e.exec.RunDir(ctx, dir, e.gitPath, "push"); err != nil {
		return wrapGitErr("push", out, err)
	}
	return nil
}

func (e *Executor) Checkout(ctx context.Context, dir, branch string) error {
	if out, err := e.exec.RunDir(ctx, dir, e.gitPath, "checkout", branch); err != nil {
		return wrapGitErr("checkout "+branch, out, err)
	}
	return nil
}

func (e *Executor) RemoteURL(ctx context.Context, dir string) (string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("get remote url: %w", err)
	}
	return strings.TrimSpace(string(out.Stdout)), nil
}

// wrapGitErr prefixes the operation and surfaces stderr, which is where
// git explains failures; the wrapped error keeps exit/context info for
// errors.As and errors.Is.
func wrapGitErr(op string, out executil.Output, err error) error {
	if msg := out.StderrText(); msg != "" {
		return fmt.Errorf("%s: %s: %w", op, msg, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
