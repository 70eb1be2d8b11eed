package fleet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Command enumerates user intents. Task-producing commands go through
// Dispatch; the UI-level commands below it are resolved by the keybinding
// layer and handled directly by the event loop.
type Command int

const (
	CmdNone Command = iota

	// Task-producing commands.
	CmdRefreshOne
	CmdRefreshAll
	CmdFetchSelected
	CmdPullSelected
	CmdPushSelected
	CmdSyncSelected
	CmdCheckoutOne

	// UI-level commands, handled by the event loop.
	CmdNavigateUp
	CmdNavigateDown
	CmdToggleSelect
	CmdClearSelection
	CmdFilter
	CmdShowErrorLog
	CmdShowHelp
	CmdQuit
)

// op maps a task-producing command to its operation kind.
func (c Command) op() Op {
	switch c {
	case CmdRefreshOne, CmdRefreshAll:
		return OpRefresh
	case CmdFetchSelected:
		return OpFetch
	case CmdPullSelected:
		return OpPull
	case CmdPushSelected:
		return OpPush
	case CmdSyncSelected:
		return OpSync
	case CmdCheckoutOne:
		return OpCheckout
	default:
		return OpNone
	}
}

// Request is one user intent plus its target selection. Selection is a
// snapshot taken at submission time; repositories becoming visible later
// are not retroactively included.
type Request struct {
	Command   Command
	Selection []string // target repo paths; ignored for CmdRefreshAll
	Branch    string   // checkout target, only for CmdCheckoutOne
}

// Report summarizes what one Dispatch call did. Busy rejections are
// non-fatal notices, not task failures.
type Report struct {
	Op        Op
	Submitted []string
	Busy      []string
	Errs      map[string]error // rejected by the scheduler for other reasons
}

// Notice renders a one-line status bar summary, empty when nothing
// happened.
func (r Report) Notice() string {
	if len(r.Submitted) == 0 && len(r.Busy) == 0 && len(r.Errs) == 0 {
		return ""
	}

	var b strings.Builder
	switch {
	case len(r.Submitted) == 1:
		fmt.Fprintf(&b, "%s %s...", r.Op.Verb(), filepath.Base(r.Submitted[0]))
	case len(r.Submitted) > 1:
		fmt.Fprintf(&b, "%s %d repos...", r.Op.Verb(), len(r.Submitted))
	}
	if len(r.Busy) > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "(%d busy)", len(r.Busy))
	}
	if len(r.Errs) > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "(%d failed to submit)", len(r.Errs))
	}
	return b.String()
}

// Dispatcher translates commands into scheduler submissions. It runs on
// the control goroutine, so marking a repository pending and submitting
// its task is atomic with respect to every other dispatch.
type Dispatcher struct {
	table *Table
	sched *Scheduler
	log   zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given table and scheduler.
func NewDispatcher(table *Table, sched *Scheduler, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{table: table, sched: sched, log: log}
}

// Dispatch submits one task per target repository. Busy repositories are
// rejected, never queued or duplicated. CmdRefreshAll expands to a
// snapshot of the full table taken now.
func (d *Dispatcher) Dispatch(req Request) Report {
	op := req.Command.op()
	report := Report{Op: op}
	if op == OpNone {
		return report
	}

	targets := req.Selection
	if req.Command == CmdRefreshAll {
		targets = d.table.Paths()
	}

	for _, path := range targets {
		st, ok := d.table.Get(path)
		if !ok {
			d.log.Warn().Str("repo", path).Msg("dispatch target not in table")
			continue
		}
		if st.Busy() {
			report.Busy = append(report.Busy, path)
			continue
		}

		prev := st
		st.Pending = op
		st.Status = StatusRefreshing
		d.table.Set(st)

		err := d.sched.Submit(Task{Repo: path, Op: op, Branch: req.Branch})
		if err == nil {
			report.Submitted = append(report.Submitted, path)
			continue
		}

		// Rejected: no completion will arrive, so roll the record back.
		d.table.Set(prev)

		var busyErr *AlreadyInProgressError
		if errors.As(err, &busyErr) {
			report.Busy = append(report.Busy, path)
			continue
		}
		if report.Errs == nil {
			report.Errs = make(map[string]error)
		}
		report.Errs[path] = err
	}

	d.log.Debug().
		Str("op", op.String()).
		Int("submitted", len(report.Submitted)).
		Int("busy", len(report.Busy)).
		Msg("dispatched")

	return report
}
