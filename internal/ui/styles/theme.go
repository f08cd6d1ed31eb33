package styles

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
)

// Theme is the palette of status output.
type Theme struct {
	Success color.Color
	Failure color.Color
	Pending color.Color
	Muted   color.Color
}

var (
	// DefaultTheme uses the 256-color palette.
	DefaultTheme = Theme{
		Success: lipgloss.Color("82"),  // green
		Failure: lipgloss.Color("196"), // red
		Pending: lipgloss.Color("214"), // orange
		Muted:   lipgloss.Color("240"), // gray
	}

	DraculaTheme = Theme{
		Success: lipgloss.Color("#50fa7b"),
		Failure: lipgloss.Color("#ff5555"),
		Pending: lipgloss.Color("#ffb86c"),
		Muted:   lipgloss.Color("#6272a4"),
	}

	NordTheme = Theme{
		Success: lipgloss.Color("#a3be8c"), // nord14
		Failure: lipgloss.Color("#bf616a"), // nord11
		Pending: lipgloss.Color("#ebcb8b"), // nord13
		Muted:   lipgloss.Color("#4c566a"), // nord3
	}

	// NoneTheme keeps the terminal's default colors.
	NoneTheme = Theme{
		Success: lipgloss.NoColor{},
		Failure: lipgloss.NoColor{},
		Pending: lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
	}
)

var themes = map[string]Theme{
	"":        DefaultTheme,
	"default": DefaultTheme,
	"dracula": DraculaTheme,
	"nord":    NordTheme,
	"none":    NoneTheme,
}

var currentTheme = DefaultTheme

// Current returns the active theme.
func Current() Theme {
	return currentTheme
}

// Init activates the named theme. An empty name selects the default.
func Init(name string) error {
	t, ok := themes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	currentTheme = t
	applyTheme(t)
	return nil
}

func applyTheme(t Theme) {
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	FailureStyle = lipgloss.NewStyle().Foreground(t.Failure)
	PendingStyle = lipgloss.NewStyle().Foreground(t.Pending)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
}
