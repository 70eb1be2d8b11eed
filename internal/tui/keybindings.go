package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/flotilla/internal/fleet"
)

// KeyMap holds the normal-mode keybindings.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Refresh    key.Binding
	RefreshAll key.Binding
	Fetch      key.Binding
	Pull       key.Binding
	Push       key.Binding
	Sync       key.Binding
	Checkout   key.Binding
	Mark       key.Binding
	ClearMarks key.Binding
	Filter     key.Binding
	ErrorLog   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		RefreshAll: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh all"),
		),
		Fetch: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fetch"),
		),
		Pull: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pull"),
		),
		Push: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "push"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync"),
		),
		Checkout: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "checkout"),
		),
		Mark: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x/space", "mark"),
		),
		ClearMarks: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear marks"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ErrorLog: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "errors"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Resolve maps a key press to a command. CmdNone means the key is unbound.
func (k KeyMap) Resolve(msg tea.KeyMsg) fleet.Command {
	switch {
	case key.Matches(msg, k.Up):
		return fleet.CmdNavigateUp
	case key.Matches(msg, k.Down):
		return fleet.CmdNavigateDown
	case key.Matches(msg, k.Refresh):
		return fleet.CmdRefreshOne
	case key.Matches(msg, k.RefreshAll):
		return fleet.CmdRefreshAll
	case key.Matches(msg, k.Fetch):
		return fleet.CmdFetchSelected
	case key.Matches(msg, k.Pull):
		return fleet.CmdPullSelected
	case key.Matches(msg, k.Push):
		return fleet.CmdPushSelected
	case key.Matches(msg, k.Sync):
		return fleet.CmdSyncSelected
	case key.Matches(msg, k.Checkout):
		return fleet.CmdCheckoutOne
	case key.Matches(msg, k.Mark):
		return fleet.CmdToggleSelect
	case key.Matches(msg, k.ClearMarks):
		return fleet.CmdClearSelection
	case key.Matches(msg, k.Filter):
		return fleet.CmdFilter
	case key.Matches(msg, k.ErrorLog):
		return fleet.CmdShowErrorLog
	case key.Matches(msg, k.Help):
		return fleet.CmdShowHelp
	case key.Matches(msg, k.Quit):
		return fleet.CmdQuit
	default:
		return fleet.CmdNone
	}
}

// helpEntries lists bindings in display order for the help view.
func (k KeyMap) helpEntries() []key.Binding {
	return []key.Binding{
		k.Up, k.Down,
		k.Refresh, k.RefreshAll,
		k.Fetch, k.Pull, k.Push, k.Sync, k.Checkout,
		k.Mark, k.ClearMarks,
		k.Filter, k.ErrorLog, k.Help, k.Quit,
	}
}
