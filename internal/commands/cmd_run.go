package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/flotilla/internal/core/styles"
	"github.com/colonyops/flotilla/internal/fleet"
)

// runnable maps op flag values to commands. Refresh is implicit in every
// op, so it is not offered here.
var runnable = map[string]fleet.Command{
	"fetch": fleet.CmdFetchSelected,
	"pull":  fleet.CmdPullSelected,
	"push":  fleet.CmdPushSelected,
	"sync":  fleet.CmdSyncSelected,
}

type RunCmd struct {
	flags *Flags

	// flags
	op  string
	all bool
}

// NewRunCmd creates a new run command
func NewRunCmd(flags *Flags) *RunCmd {
	return &RunCmd{flags: flags}
}

// Register adds the run command to the application
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Run a git operation across repositories",
		UsageText: "flotilla run [--op fetch|pull|push|sync] [--all] [repo...]",
		Description: `Runs one operation against a set of repositories and waits for all
of them to finish. Repositories may be named as arguments (matched by
directory name); with no arguments an interactive picker is shown,
and --all targets every discovered repository.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "op",
				Usage:       "operation to run (fetch, pull, push, sync)",
				Destination: &cmd.op,
			},
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "target every repository",
				Destination: &cmd.all,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RunCmd) run(ctx context.Context, c *cli.Command) error {
	eng, err := buildEngine(cmd.flags.Config)
	if err != nil {
		return err
	}
	defer eng.sched.CancelAll()

	if len(eng.repos) == 0 {
		return fmt.Errorf("no repositories found under %v", cmd.flags.Config.Roots)
	}

	targets, err := cmd.resolveTargets(eng, c.Args().Slice())
	if err != nil {
		return err
	}

	if cmd.op == "" || len(targets) == 0 {
		done, formErr := cmd.pickForm(eng, &targets)
		if formErr != nil {
			return formErr
		}
		if !done {
			return nil // aborted
		}
	}

	command, ok := runnable[cmd.op]
	if !ok {
		return fmt.Errorf("unknown operation %q (want fetch, pull, push, or sync)", cmd.op)
	}

	results, err := eng.runAndWait(ctx, fleet.Request{
		Command:   command,
		Selection: targets,
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		name := filepath.Base(res.Repo)
		if res.OK() {
			fmt.Fprintf(c.Root().Writer, "%s %s: %s\n",
				styles.StatusCleanStyle.Render("ok"), name, res.Status.Text())
			continue
		}
		failed++
		fmt.Fprintf(c.Root().Writer, "%s %s: %s\n",
			styles.StatusErrStyle.Render("failed"), name, res.Message)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d operations failed", failed, len(results))
	}
	return nil
}

// resolveTargets matches positional repo names against the discovery
// result. Unknown names are an error rather than a silent skip.
func (cmd *RunCmd) resolveTargets(eng *engine, names []string) ([]string, error) {
	if cmd.all {
		return eng.table.Paths(), nil
	}

	byName := make(map[string][]string)
	for _, r := range eng.repos {
		byName[r.Name] = append(byName[r.Name], r.Path)
	}

	var targets []string
	for _, name := range names {
		paths, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown repository %q", name)
		}
		targets = append(targets, paths...)
	}
	return targets, nil
}

// pickForm fills in the operation and targets interactively. Returns false
// when the user aborted.
func (cmd *RunCmd) pickForm(eng *engine, targets *[]string) (bool, error) {
	var groups []*huh.Group

	if len(*targets) == 0 {
		options := make([]huh.Option[string], 0, len(eng.repos))
		for _, r := range eng.repos {
			options = append(options, huh.NewOption(r.Name, r.Path))
		}
		groups = append(groups, huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Repositories").
				Options(options...).
				Validate(func(sel []string) error {
					if len(sel) == 0 {
						return errors.New("pick at least one repository")
					}
					return nil
				}).
				Value(targets),
		))
	}

	if cmd.op == "" {
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().
				Title("Operation").
				Options(
					huh.NewOption("fetch (update remote refs)", "fetch"),
					huh.NewOption("pull (fast-forward only)", "pull"),
					huh.NewOption("push", "push"),
					huh.NewOption("sync (fetch, pull, push)", "sync"),
				).
				Value(&cmd.op),
		))
	}

	if len(groups) == 0 {
		return true, nil
	}

	if err := huh.NewForm(groups...).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("form: %w", err)
	}
	return true, nil
}
