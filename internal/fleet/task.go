// Package fleet implements the concurrent repository-state engine: the
// state table, the bounded scheduler that fans git work out across repos,
// the aggregator that folds results back in, and the dispatcher that turns
// user commands into task submissions.
package fleet

import (
	"time"

	"github.com/colonyops/flotilla/internal/core/git"
)

// Op identifies a git operation run against a single repository.
type Op int

const (
	OpNone Op = iota
	OpRefresh
	OpFetch
	OpPull
	OpPush
	OpSync
	OpCheckout
)

func (o Op) String() string {
	switch o {
	case OpRefresh:
		return "refresh"
	case OpFetch:
		return "fetch"
	case OpPull:
		return "pull"
	case OpPush:
		return "push"
	case OpSync:
		return "sync"
	case OpCheckout:
		return "checkout"
	default:
		return "none"
	}
}

// Verb returns the progressive form for status bar messages.
func (o Op) Verb() string {
	switch o {
	case OpRefresh:
		return "Refreshing"
	case OpFetch:
		return "Fetching"
	case OpPull:
		return "Pulling"
	case OpPush:
		return "Pushing"
	case OpSync:
		return "Syncing"
	case OpCheckout:
		return "Checking out"
	default:
		return ""
	}
}

// FailKind classifies why a task failed.
type FailKind int

const (
	FailNone FailKind = iota
	// FailRepoUnavailable means the path is missing or not a git repo.
	FailRepoUnavailable
	// FailGitCommandFailed means git exited non-zero.
	FailGitCommandFailed
	// FailTimedOut means the per-task timeout expired and the subprocess
	// was killed.
	FailTimedOut
	// FailCancelled means the scheduler was cancelled before or during
	// the task.
	FailCancelled
	// FailParseError means git produced output in an unexpected shape.
	FailParseError
)

func (k FailKind) String() string {
	switch k {
	case FailNone:
		return "none"
	case FailRepoUnavailable:
		return "repo unavailable"
	case FailGitCommandFailed:
		return "git command failed"
	case FailTimedOut:
		return "timed out"
	case FailCancelled:
		return "cancelled"
	case FailParseError:
		return "parse error"
	default:
		return "unknown"
	}
}

// Task is one scheduled execution of a single git operation against a
// single repository. The scheduler owns it from submission until the
// result is delivered.
type Task struct {
	Repo        string // absolute path, the repository identity
	Op          Op
	Branch      string // checkout target, only for OpCheckout
	SubmittedAt time.Time
}

// Result is the outcome of one task, consumed exactly once by the
// aggregator.
type Result struct {
	Repo    string
	Op      Op
	Status  git.RepoStatus // parsed post-operation state, valid when OK
	Fail    FailKind       // FailNone on success
	Message string         // short failure reason for the UI
}

// OK reports whether the task succeeded.
func (r Result) OK() bool { return r.Fail == FailNone }
