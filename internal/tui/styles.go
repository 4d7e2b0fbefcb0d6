package tui

import "github.com/charmbracelet/lipgloss"

// Theme colors.
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"}
	colorError   = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"}
	colorText    = lipgloss.AdaptiveColor{Light: "#4c4f69", Dark: "#cdd6f4"}
)

// styles contains the reusable lipgloss styles for the browser.
type styles struct {
	Title       lipgloss.Style
	Panel       lipgloss.Style
	PanelActive lipgloss.Style
	PanelTitle  lipgloss.Style
	ListItem    lipgloss.Style
	ListActive  lipgloss.Style
	Loader      lipgloss.Style
	LoaderOn    lipgloss.Style
	StatusInfo  lipgloss.Style
	StatusWarn  lipgloss.Style
	StatusError lipgloss.Style
	Help        lipgloss.Style
	Muted       lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),

		PanelActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary),

		ListItem: lipgloss.NewStyle().
			Foreground(colorText),

		ListActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary),

		Loader: lipgloss.NewStyle().
			Foreground(colorMuted),

		LoaderOn: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess),

		StatusInfo: lipgloss.NewStyle().
			Foreground(colorSuccess),

		StatusWarn: lipgloss.NewStyle().
			Foreground(colorWarning),

		StatusError: lipgloss.NewStyle().
			Foreground(colorError),

		Help: lipgloss.NewStyle().
			Foreground(colorMuted),

		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),
	}
}
