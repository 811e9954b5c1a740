package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/weftlabs/weft/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)

	statusStyles = map[domain.Status]lipgloss.Style{
		domain.StatusDraft:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		domain.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		domain.StatusReady:      lipgloss.NewStyle().Foreground(lipgloss.Color("44")),
		domain.StatusReview:     lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		domain.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		domain.StatusDropped:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	}
)

// renderStatus returns the display name of a status, colored when the
// terminal supports it.
func renderStatus(s domain.Status) string {
	if style, ok := statusStyles[s]; ok {
		return style.Render(s.Display())
	}
	return s.Display()
}
