package git

import (
	"fmt"
	"strconv"
	"strings"
)

// RepoStatus is the parsed state of a single working tree.
type RepoStatus struct {
	Branch      string // branch name, or short SHA when HEAD is detached
	Ahead       int
	Behind      int
	Dirty       bool // modified tracked files in the worktree
	Untracked   int
	Staged      int
	HasUpstream bool
}

// Icon returns a single-cell glyph summarizing the repo state.
func (s RepoStatus) Icon() string {
	switch {
	case !s.HasUpstream:
		return "?"
	case s.IsDirty():
		return "*"
	case s.Ahead > 0 && s.Behind > 0:
		return "⇅"
	case s.Ahead > 0:
		return "↑"
	case s.Behind > 0:
		return "↓"
	default:
		return "✓"
	}
}

// Text returns a short human-readable summary, e.g. "+2 ahead, dirty".
func (s RepoStatus) Text() string {
	if !s.HasUpstream {
		return "no upstream"
	}

	var parts []string

	switch {
	case s.Ahead > 0 && s.Behind > 0:
		parts = append(parts, fmt.Sprintf("+%d/-%d", s.Ahead, s.Behind))
	case s.Ahead > 0:
		parts = append(parts, fmt.Sprintf("+%d ahead", s.Ahead))
	case s.Behind > 0:
		parts = append(parts, fmt.Sprintf("-%d behind", s.Behind))
	}

	if s.Dirty {
		parts = append(parts, "dirty")
	}
	if s.Staged > 0 {
		parts = append(parts, fmt.Sprintf("%d staged", s.Staged))
	}
	if s.Untracked > 0 {
		parts = append(parts, fmt.Sprintf("%d untracked", s.Untracked))
	}

	if len(parts) == 0 {
		return "synced"
	}
	return strings.Join(parts, ", ")
}

// IsDirty reports whether the worktree has any local modifications,
// staged or not.
func (s RepoStatus) IsDirty() bool {
	return s.Dirty || s.Staged > 0 || s.Untracked > 0
}

// IsSynced reports whether the repo has nothing to pull, push, or commit.
func (s RepoStatus) IsSynced() bool {
	return s.HasUpstream && s.Ahead == 0 && s.Behind == 0 && !s.IsDirty()
}

// CanFastForward reports whether a ff-only pull would succeed.
func (s RepoStatus) CanFastForward() bool {
	return s.Behind > 0 && s.Ahead == 0 && !s.Dirty && s.Staged == 0
}

// ParseError indicates git produced output in an unexpected shape.
type ParseError struct {
	Op  string // the git subcommand whose output failed to parse
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s output: %q", e.Op, e.Raw)
}

// parseAheadBehind parses `rev-list --left-right --count HEAD...@{upstream}`
// output, a single tab-separated pair like "2\t1".
func parseAheadBehind(out string) (ahead, behind int, err error) {
	fields := strings.Split(strings.TrimSpace(out), "\t")
	if len(fields) != 2 {
		return 0, 0, &ParseError{Op: "rev-list", Raw: out}
	}

	ahead, err = strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, &ParseError{Op: "rev-list", Raw: out}
	}
	behind, err = strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, 0, &ParseError{Op: "rev-list", Raw: out}
	}
	return ahead, behind, nil
}

// parsePorcelain folds `status --porcelain` output into dirty, untracked,
// and staged counters. Each line is "XY path" where X is the index state
// and Y the worktree state.
func parsePorcelain(out string) (dirty bool, untracked, staged int) {
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 2 {
			continue
		}

		index, worktree := line[0], line[1]
		if index == '?' {
			untracked++
			continue
		}
		if index != ' ' {
			staged++
		}
		if worktree != ' ' {
			dirty = true
		}
	}
	return dirty, untracked, staged
}
