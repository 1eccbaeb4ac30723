package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the CLI.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Badge   lipgloss.Style
	Focused lipgloss.Style
}

// NewStyles builds styles for the given lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Badge:   r.NewStyle().Padding(0, 1).Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15")),
		Focused: r.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
	}
}
