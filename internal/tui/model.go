// Package tui implements the interactive fleet view on bubbletea.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colonyops/flotilla/internal/core/styles"
	"github.com/colonyops/flotilla/internal/fleet"
)

// Deps carries everything the model needs. All fields are required except
// AutoRefresh, which disables the background tick when zero.
type Deps struct {
	Table       *fleet.Table
	Scheduler   *fleet.Scheduler
	Aggregator  *fleet.Aggregator
	Dispatcher  *fleet.Dispatcher
	AutoRefresh time.Duration
	Log         zerolog.Logger
}

type mode int

const (
	modeNormal mode = iota
	modeFilter
	modeCheckout
	modeErrorLog
	modeHelp
)

// maxErrorLog bounds the in-memory error history.
const maxErrorLog = 100

// errorEntry is one failed operation kept for the error log view.
type errorEntry struct {
	When    time.Time
	Repo    string
	Op      fleet.Op
	Message string
}

// Model is the bubbletea model for the fleet view. It owns the table: every
// read and write happens inside Update/View on the program goroutine, so no
// locking is needed anywhere in the render path.
type Model struct {
	deps Deps
	keys KeyMap

	cursor int
	marked map[string]bool
	filter textinput.Model
	branch textinput.Model
	spin   spinner.Model
	mode   mode

	notice    string
	noticeSeq int
	errLog    []errorEntry
	quitting  bool

	width  int
	height int
}

// New creates the model and kicks off an initial refresh of every
// repository on Init.
func New(deps Deps) Model {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter"
	filter.CharLimit = 64

	branch := textinput.New()
	branch.Prompt = "checkout: "
	branch.Placeholder = "branch"
	branch.CharLimit = 128

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.StatusBusyStyle

	return Model{
		deps:   deps,
		keys:   DefaultKeyMap(),
		marked: make(map[string]bool),
		filter: filter,
		branch: branch,
		spin:   spin,
	}
}

func (m Model) Init() tea.Cmd {
	report := m.deps.Dispatcher.Dispatch(fleet.Request{Command: fleet.CmdRefreshAll})
	m.deps.Log.Debug().Int("submitted", len(report.Submitted)).Msg("initial refresh")

	cmds := []tea.Cmd{m.waitForTask(), m.spin.Tick}
	if m.deps.AutoRefresh > 0 {
		cmds = append(cmds, scheduleAutoRefresh(m.deps.AutoRefresh))
	}
	return tea.Batch(cmds...)
}

// waitForTask pumps the next completion into the event loop. Exactly one
// pump is outstanding at a time; each taskCompleteMsg re-arms it.
func (m Model) waitForTask() tea.Cmd {
	ch := m.deps.Scheduler.Completions()
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return schedulerClosedMsg{}
		}
		return taskCompleteMsg{res: res}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case taskCompleteMsg:
		// A completion the scheduler handed to the pump just as shutdown
		// began can still land here; once quitting, nothing is applied.
		if m.quitting {
			return m, nil
		}
		m.deps.Aggregator.Apply(msg.res)
		if !msg.res.OK() {
			m.recordError(msg.res)
		}
		m.clampCursor()
		return m, m.waitForTask()

	case schedulerClosedMsg:
		return m, nil

	case autoRefreshTickMsg:
		report := m.deps.Dispatcher.Dispatch(fleet.Request{Command: fleet.CmdRefreshAll})
		m.deps.Log.Debug().Int("submitted", len(report.Submitted)).Msg("auto refresh")
		return m, scheduleAutoRefresh(m.deps.AutoRefresh)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeFilter:
		return m.handleFilterKey(msg)
	case modeCheckout:
		return m.handleCheckoutKey(msg)
	case modeErrorLog, modeHelp:
		// Any key dismisses the overlay.
		m.mode = modeNormal
		return m, nil
	}

	switch m.keys.Resolve(msg) {
	case fleet.CmdNavigateUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case fleet.CmdNavigateDown:
		if m.cursor < len(m.visibleRows())-1 {
			m.cursor++
		}
	case fleet.CmdToggleSelect:
		if row, ok := m.cursorRow(); ok {
			if m.marked[row.Path] {
				delete(m.marked, row.Path)
			} else {
				m.marked[row.Path] = true
			}
		}
	case fleet.CmdClearSelection:
		m.marked = make(map[string]bool)
	case fleet.CmdFilter:
		m.mode = modeFilter
		m.filter.Focus()
		return m, textinput.Blink
	case fleet.CmdShowErrorLog:
		m.mode = modeErrorLog
	case fleet.CmdShowHelp:
		m.mode = modeHelp
	case fleet.CmdCheckoutOne:
		if _, ok := m.cursorRow(); ok {
			m.mode = modeCheckout
			m.branch.SetValue("")
			m.branch.Focus()
			return m, textinput.Blink
		}
	case fleet.CmdQuit:
		m.quitting = true
		m.deps.Scheduler.CancelAll()
		return m, tea.Quit
	case fleet.CmdRefreshOne, fleet.CmdRefreshAll,
		fleet.CmdFetchSelected, fleet.CmdPullSelected,
		fleet.CmdPushSelected, fleet.CmdSyncSelected:
		return m.dispatch(m.keys.Resolve(msg), "")
	}

	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.filter.SetValue("")
		m.filter.Blur()
		m.clampCursor()
		return m, nil
	case "enter":
		m.mode = modeNormal
		m.filter.Blur()
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.clampCursor()
	return m, cmd
}

func (m Model) handleCheckoutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.branch.Blur()
		return m, nil
	case "enter":
		branch := strings.TrimSpace(m.branch.Value())
		m.mode = modeNormal
		m.branch.Blur()
		if branch == "" {
			return m, nil
		}
		return m.dispatch(fleet.CmdCheckoutOne, branch)
	}

	var cmd tea.Cmd
	m.branch, cmd = m.branch.Update(msg)
	return m, cmd
}

// dispatch submits a task-producing command against the current selection
// and surfaces the report in the status bar.
func (m Model) dispatch(cmd fleet.Command, branch string) (tea.Model, tea.Cmd) {
	report := m.deps.Dispatcher.Dispatch(fleet.Request{
		Command:   cmd,
		Selection: m.selection(cmd),
		Branch:    branch,
	})
	if notice := report.Notice(); notice != "" {
		return m.setNotice(notice)
	}
	return m, nil
}

// selection resolves the targets for a command. Multi-repo commands act on
// the marked set when non-empty, otherwise on the cursor row. Checkout and
// single refresh always target the cursor row only.
func (m Model) selection(cmd fleet.Command) []string {
	if cmd == fleet.CmdRefreshAll {
		return nil
	}

	single := cmd == fleet.CmdRefreshOne || cmd == fleet.CmdCheckoutOne
	if !single && len(m.marked) > 0 {
		var paths []string
		for _, path := range m.deps.Table.Paths() {
			if m.marked[path] {
				paths = append(paths, path)
			}
		}
		return paths
	}

	row, ok := m.cursorRow()
	if !ok {
		return nil
	}
	return []string{row.Path}
}

func (m *Model) setNotice(s string) (tea.Model, tea.Cmd) {
	m.notice = s
	m.noticeSeq++
	return *m, expireNotice(m.noticeSeq)
}

func (m *Model) recordError(res fleet.Result) {
	m.errLog = append(m.errLog, errorEntry{
		When:    time.Now(),
		Repo:    res.Repo,
		Op:      res.Op,
		Message: res.Message,
	})
	if len(m.errLog) > maxErrorLog {
		m.errLog = m.errLog[len(m.errLog)-maxErrorLog:]
	}
}

// visibleRows returns the table snapshot filtered by the current query.
// Matching is a case-insensitive substring test on the repo name or path.
func (m Model) visibleRows() []fleet.RepoState {
	rows := m.deps.Table.Snapshot()
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if query == "" {
		return rows
	}

	out := rows[:0]
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Name), query) ||
			strings.Contains(strings.ToLower(row.Path), query) {
			out = append(out, row)
		}
	}
	return out
}

func (m Model) cursorRow() (fleet.RepoState, bool) {
	rows := m.visibleRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return fleet.RepoState{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleRows())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}
