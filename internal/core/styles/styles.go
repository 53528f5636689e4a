// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/worklog/internal/core/workitem"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
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
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

var active = themes[DefaultTheme]

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

// SetTheme makes the given palette the active one for state rendering.
func SetTheme(p Palette) {
	active = p
}

// StateStyle returns the render style for a lifecycle state.
func StateStyle(s workitem.State) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch s {
	case workitem.StateBacklog:
		return style.Foreground(active.Muted)
	case workitem.StateReady:
		return style.Foreground(active.Secondary)
	case workitem.StateInProgress:
		return style.Foreground(active.Primary)
	case workitem.StateReadyForReview:
		return style.Foreground(active.Warning)
	case workitem.StatePassedReview:
		return style.Foreground(active.Success)
	case workitem.StateBlocked:
		return style.Foreground(active.Error)
	case workitem.StateDone:
		return style.Foreground(active.Success).Bold(true)
	}
	return style.Foreground(active.Foreground)
}

// RenderState returns the state label coloured for terminal output.
func RenderState(s workitem.State) string {
	return StateStyle(s).Render(string(s))
}
