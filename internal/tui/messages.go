package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/flotilla/internal/fleet"
)

// taskCompleteMsg carries one finished task from the scheduler into the
// event loop.
type taskCompleteMsg struct {
	res fleet.Result
}

// schedulerClosedMsg is sent when the completion channel is closed and no
// further results will arrive.
type schedulerClosedMsg struct{}

// autoRefreshTickMsg triggers a background refresh of every repository.
type autoRefreshTickMsg struct{}

// noticeExpiredMsg clears the status bar notice. Seq guards against an old
// timer wiping a newer notice.
type noticeExpiredMsg struct {
	seq int
}

// scheduleAutoRefresh returns a command that fires the next refresh tick.
func scheduleAutoRefresh(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return autoRefreshTickMsg{}
	})
}

// expireNotice schedules clearing of the status bar notice.
func expireNotice(seq int) tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}
