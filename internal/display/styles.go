package display

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header  lipgloss.Style
	phase   lipgloss.Style
	agent   lipgloss.Style
	word    lipgloss.Style
	play    lipgloss.Style
	illegal lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	info    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1),
		phase:   r.NewStyle().Foreground(lipgloss.Color("#626262")),
		agent:   r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		word:    r.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		play:    r.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		illegal: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		info:    r.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}
