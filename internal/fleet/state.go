package fleet

import (
	"path/filepath"
	"time"

	"github.com/colonyops/flotilla/internal/core/git"
)

// Status is the lifecycle state of a repository's record.
type Status int

const (
	// StatusUnknown means no refresh has completed yet.
	StatusUnknown Status = iota
	// StatusRefreshing means an operation is in flight for the repo.
	StatusRefreshing
	// StatusClean means the last operation succeeded and Git holds
	// current data. "Clean" refers to the record, not the worktree.
	StatusClean
	// StatusError means the last operation failed; Err holds the reason.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusRefreshing:
		return "refreshing"
	case StatusClean:
		return "clean"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// RepoState is the record kept per repository. Records are replaced whole
// on every mutation, never updated field by field.
type RepoState struct {
	Path     string // identity, never changes
	Name     string // directory basename, for display
	Git      git.RepoStatus
	LastSync time.Time // last successful operation
	Status   Status
	Err      string // reason when Status == StatusError
	Pending  Op     // operation in flight, OpNone when idle
}

// Busy reports whether an operation is in flight for this repository.
func (s RepoState) Busy() bool { return s.Pending != OpNone }

// Table holds one RepoState per repository path, in discovery order.
//
// The table is owned by the control goroutine: the aggregator is its only
// writer and the render path its only reader, both running on that same
// goroutine, so it takes no locks. Worker goroutines never touch it; they
// hand results over through the scheduler's completion channel.
type Table struct {
	order []string
	repos map[string]RepoState
}

// NewTable creates a table with one Unknown record per path, preserving
// the given order. Duplicate paths collapse to one record.
func NewTable(paths []string) *Table {
	t := &Table{repos: make(map[string]RepoState, len(paths))}
	for _, p := range paths {
		if _, ok := t.repos[p]; ok {
			continue
		}
		t.order = append(t.order, p)
		t.repos[p] = RepoState{
			Path: p,
			Name: filepath.Base(p),
		}
	}
	return t
}

// Len returns the number of repositories.
func (t *Table) Len() int { return len(t.order) }

// Get returns the record for path.
func (t *Table) Get(path string) (RepoState, bool) {
	s, ok := t.repos[path]
	return s, ok
}

// Set replaces the record for its path as a whole. Paths not created at
// startup are appended, keeping iteration order stable.
func (t *Table) Set(s RepoState) {
	if _, ok := t.repos[s.Path]; !ok {
		t.order = append(t.order, s.Path)
	}
	t.repos[s.Path] = s
}

// Paths returns a snapshot of all repository paths in table order.
func (t *Table) Paths() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Snapshot returns a copy of all records in table order, safe to hand to
// the renderer.
func (t *Table) Snapshot() []RepoState {
	out := make([]RepoState, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.repos[p])
	}
	return out
}
