package tui

import (
	"fmt"
	"strings"

	"github.com/colonyops/flotilla/internal/core/git"
	"github.com/colonyops/flotilla/internal/core/styles"
	"github.com/colonyops/flotilla/internal/fleet"
)

func (m Model) View() string {
	switch m.mode {
	case modeErrorLog:
		return m.errorLogView()
	case modeHelp:
		return m.helpView()
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("flotilla"))
	b.WriteString("\n\n")

	rows := m.visibleRows()
	if len(rows) == 0 {
		b.WriteString(styles.HelpStyle.Render("no repositories"))
		b.WriteString("\n")
	}

	nameWidth := 0
	branchWidth := 0
	for _, row := range rows {
		if len(row.Name) > nameWidth {
			nameWidth = len(row.Name)
		}
		if len(row.Git.Branch) > branchWidth {
			branchWidth = len(row.Git.Branch)
		}
	}

	for i, row := range rows {
		b.WriteString(m.renderRow(row, i == m.cursor, nameWidth, branchWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusBar(len(rows)))

	return b.String()
}

func (m Model) renderRow(row fleet.RepoState, cursor bool, nameWidth, branchWidth int) string {
	prefix := "  "
	if cursor {
		prefix = "▸ "
	}

	mark := " "
	if m.marked[row.Path] {
		mark = styles.MarkedStyle.Render("●")
	}

	name := fmt.Sprintf("%-*s", nameWidth, row.Name)
	branch := styles.BranchStyle.Render(fmt.Sprintf("%-*s", branchWidth, row.Git.Branch))

	var status string
	switch {
	case row.Busy():
		status = styles.StatusBusyStyle.Render(m.spin.View() + row.Pending.Verb() + "...")
	case row.Status == fleet.StatusError:
		status = styles.StatusErrStyle.Render("✗ " + row.Err)
	case row.Status == fleet.StatusUnknown:
		status = styles.StatusBusyStyle.Render("…")
	default:
		status = statusCell(row.Git)
	}

	line := fmt.Sprintf("%s%s %s  %s  %s", prefix, mark, name, branch, status)
	if cursor {
		return styles.CursorRowStyle.Render(line)
	}
	return styles.RowStyle.Render(line)
}

// statusCell renders the icon plus summary text for a parsed status.
func statusCell(s git.RepoStatus) string {
	style := styles.StatusCleanStyle
	switch {
	case !s.HasUpstream:
		style = styles.StatusBusyStyle
	case s.IsDirty():
		style = styles.StatusDirtyStyle
	case s.Ahead > 0 || s.Behind > 0:
		style = styles.StatusAheadStyle
	}
	return style.Render(s.Icon() + " " + s.Text())
}

func (m Model) statusBar(visible int) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d/%d repos", visible, m.deps.Table.Len()))
	if len(m.marked) > 0 {
		parts = append(parts, fmt.Sprintf("%d marked", len(m.marked)))
	}
	if n := m.deps.Scheduler.InFlight(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d running", n))
	}
	if len(m.errLog) > 0 {
		parts = append(parts, styles.StatusErrStyle.Render(fmt.Sprintf("%d errors (E)", len(m.errLog))))
	}

	left := styles.StatusBarStyle.Render(strings.Join(parts, " · "))

	if m.mode == modeFilter {
		return left + " " + styles.FilterPromptStyle.Render(m.filter.View())
	}
	if m.mode == modeCheckout {
		return left + " " + styles.FilterPromptStyle.Render(m.branch.View())
	}
	if m.notice != "" {
		return left + " " + styles.StatusNoticeStyle.Render(m.notice)
	}
	if q := m.filter.Value(); q != "" {
		return left + " " + styles.HelpStyle.Render("filter: "+q)
	}
	return left + " " + styles.HelpStyle.Render("? for help")
}

func (m Model) errorLogView() string {
	var b strings.Builder
	b.WriteString(styles.ErrorLogTitleStyle.Render("Errors"))
	b.WriteString("\n\n")

	if len(m.errLog) == 0 {
		b.WriteString(styles.HelpStyle.Render("no errors recorded"))
		b.WriteString("\n")
	}

	// Newest first.
	for i := len(m.errLog) - 1; i >= 0; i-- {
		e := m.errLog[i]
		b.WriteString(styles.ErrorLogTimeStyle.Render(e.When.Format("15:04:05")))
		b.WriteString(" ")
		b.WriteString(styles.ErrorLogRepoStyle.Render(repoBase(e.Repo)))
		b.WriteString(styles.HelpStyle.Render(fmt.Sprintf(" %s: ", e.Op)))
		b.WriteString(e.Message)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("press any key to return"))
	return b.String()
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keybindings"))
	b.WriteString("\n\n")

	for _, binding := range m.keys.helpEntries() {
		h := binding.Help()
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			styles.FilterPromptStyle.Render(fmt.Sprintf("%-8s", h.Key)),
			styles.HelpStyle.Render(h.Desc)))
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("press any key to return"))
	return b.String()
}

func repoBase(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
