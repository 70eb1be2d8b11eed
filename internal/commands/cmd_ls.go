package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/flotilla/internal/core/styles"
	"github.com/colonyops/flotilla/internal/fleet"
)

type LsCmd struct {
	flags *Flags

	// flags
	dirtyOnly bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List repositories with their status",
		UsageText: "flotilla ls [--dirty]",
		Description: `Refreshes every discovered repository once and prints a table of
name, branch, and sync status. Intended for scripting and quick
checks without entering the TUI.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "dirty",
				Usage:       "only show repositories with local changes or pending sync",
				Destination: &cmd.dirtyOnly,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	eng, err := buildEngine(cmd.flags.Config)
	if err != nil {
		return err
	}
	defer eng.sched.CancelAll()

	if len(eng.repos) == 0 {
		fmt.Fprintf(os.Stderr, "No repositories found\n")
		return nil
	}

	if _, err := eng.runAndWait(ctx, fleet.Request{Command: fleet.CmdRefreshAll}); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	colored := term.IsTerminal(int(os.Stdout.Fd()))

	w := tabwriter.NewWriter(c.Root().Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBRANCH\tSTATUS")

	failures := 0
	for _, st := range eng.table.Snapshot() {
		if st.Status == fleet.StatusError {
			failures++
			fmt.Fprintf(w, "%s\t%s\t%s\n", st.Name, st.Git.Branch, render(colored, styles.StatusErrStyle, "✗ "+st.Err))
			continue
		}
		if cmd.dirtyOnly && st.Git.IsSynced() {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s %s\n", st.Name, st.Git.Branch, st.Git.Icon(), st.Git.Text())
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	if failures > 0 {
		return fmt.Errorf("%d repositories failed to refresh", failures)
	}
	return nil
}

func render(colored bool, style lipgloss.Style, s string) string {
	if !colored {
		return s
	}
	return style.Render(s)
}
