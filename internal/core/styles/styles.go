// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.TerminalColor
	Secondary  lipgloss.TerminalColor
	Foreground lipgloss.TerminalColor
	Muted      lipgloss.TerminalColor
	Background lipgloss.TerminalColor
	Surface    lipgloss.TerminalColor
	Success    lipgloss.TerminalColor
	Warning    lipgloss.TerminalColor
	Error      lipgloss.TerminalColor
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Background: lipgloss.Color("#282828"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    lipgloss.TerminalColor
	ColorSecondary  lipgloss.TerminalColor
	ColorForeground lipgloss.TerminalColor
	ColorMuted      lipgloss.TerminalColor
	ColorBackground lipgloss.TerminalColor
	ColorSurface    lipgloss.TerminalColor
	ColorSuccess    lipgloss.TerminalColor
	ColorWarning    lipgloss.TerminalColor
	ColorError      lipgloss.TerminalColor
)

// Style exports.
var (
	TitleStyle   lipgloss.Style
	HeaderStyle  lipgloss.Style
	DividerStyle lipgloss.Style

	RowStyle       lipgloss.Style
	CursorRowStyle lipgloss.Style
	MarkedStyle    lipgloss.Style

	BranchStyle      lipgloss.Style
	StatusCleanStyle lipgloss.Style
	StatusDirtyStyle lipgloss.Style
	StatusAheadStyle lipgloss.Style
	StatusErrStyle   lipgloss.Style
	StatusBusyStyle  lipgloss.Style

	StatusBarStyle    lipgloss.Style
	StatusNoticeStyle lipgloss.Style
	HelpStyle         lipgloss.Style
	FilterPromptStyle lipgloss.Style

	ErrorLogTitleStyle lipgloss.Style
	ErrorLogRepoStyle  lipgloss.Style
	ErrorLogTimeStyle  lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	HeaderStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	RowStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	CursorRowStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Background(ColorSurface).
		Bold(true)
	MarkedStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)

	BranchStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	StatusCleanStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	StatusDirtyStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	StatusAheadStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	StatusErrStyle = lipgloss.NewStyle().Foreground(ColorError)
	StatusBusyStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSurface).
		Padding(0, 1)
	StatusNoticeStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	FilterPromptStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	ErrorLogTitleStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)
	ErrorLogRepoStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	ErrorLogTimeStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
