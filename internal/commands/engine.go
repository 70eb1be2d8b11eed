package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/flotilla/internal/core/config"
	"github.com/colonyops/flotilla/internal/core/discover"
	"github.com/colonyops/flotilla/internal/core/git"
	"github.com/colonyops/flotilla/internal/core/logging"
	"github.com/colonyops/flotilla/internal/fleet"
	"github.com/colonyops/flotilla/pkg/executil"
)

// engine bundles the discovery result and the task pipeline shared by the
// TUI and the headless commands.
type engine struct {
	repos []discover.Repo
	table *fleet.Table
	sched *fleet.Scheduler
	agg   *fleet.Aggregator
	disp  *fleet.Dispatcher
}

// buildEngine discovers repositories and assembles the scheduler stack.
// The caller owns the scheduler and must CancelAll it on the way out.
func buildEngine(cfg *config.Config) (*engine, error) {
	roots, err := cfg.ExpandedRoots()
	if err != nil {
		return nil, fmt.Errorf("resolve roots: %w", err)
	}

	repos, err := discover.Scan(roots, cfg.Ignore)
	if err != nil {
		return nil, fmt.Errorf("scan roots: %w", err)
	}

	paths := make([]string, 0, len(repos))
	for _, r := range repos {
		paths = append(paths, r.Path)
	}

	var (
		exec    = &executil.RealExecutor{}
		gitExec = git.NewExecutor(cfg.Git.Path, exec)
		runner  = fleet.NewGitRunner(gitExec, logging.Component("runner"))
		table   = fleet.NewTable(paths)
		sched   = fleet.NewScheduler(runner, cfg.Git.Workers, cfg.Git.Timeout(), logging.Component("scheduler"))
	)

	return &engine{
		repos: repos,
		table: table,
		sched: sched,
		agg:   fleet.NewAggregator(table, logging.Component("aggregator")),
		disp:  fleet.NewDispatcher(table, sched, logging.Component("dispatcher")),
	}, nil
}

// runAndWait dispatches one command and blocks until every submitted task
// has completed, applying each result to the table. Used by the headless
// commands; the TUI consumes completions through its own event loop.
func (e *engine) runAndWait(ctx context.Context, req fleet.Request) ([]fleet.Result, error) {
	report := e.disp.Dispatch(req)

	results := make([]fleet.Result, 0, len(report.Submitted))
	for range report.Submitted {
		select {
		case res := <-e.sched.Completions():
			e.agg.Apply(res)
			results = append(results, res)
		case <-ctx.Done():
			return results, ctx.Err()
		}
	}
	return results, nil
}
