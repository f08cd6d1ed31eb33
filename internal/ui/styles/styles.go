// Package styles holds the lipgloss styles of hub's terminal output.
//
// Colors come from the active [Theme], selected with [Init] from the
// "theme" config setting. Output written through a colorprofile writer
// loses the colors when stdout is not a terminal.
package styles

import "charm.land/lipgloss/v2"

var (
	// Bold is used for section titles.
	Bold = lipgloss.NewStyle().Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(DefaultTheme.Success)
	FailureStyle = lipgloss.NewStyle().Foreground(DefaultTheme.Failure)
	PendingStyle = lipgloss.NewStyle().Foreground(DefaultTheme.Pending)
	MutedStyle   = lipgloss.NewStyle().Foreground(DefaultTheme.Muted)
)

// StateStyle returns the style for a commit status state as reported by
// the GitHub API.
func StateStyle(state string) lipgloss.Style {
	switch state {
	case "success":
		return SuccessStyle
	case "failure", "error":
		return FailureStyle
	case "pending":
		return PendingStyle
	default:
		return MutedStyle
	}
}

// RenderState renders a commit status state in its color.
func RenderState(state string) string {
	return StateStyle(state).Render(state)
}
