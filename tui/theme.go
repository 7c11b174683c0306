package tui

import (
	"github.com/charmbracelet/lipgloss"

	"vertex-crm/models"
)

// Theme holds the styles used by the client list. Colors are ANSI
// 256-color codes for broad terminal compatibility.
type Theme struct {
	Header       lipgloss.Style
	Title        lipgloss.Style
	Control      lipgloss.Style
	ActiveInput  lipgloss.Style
	ColumnHeader lipgloss.Style
	SortedHeader lipgloss.Style
	Row          lipgloss.Style
	SelectedRow  lipgloss.Style
	Hint         lipgloss.Style
	Error        lipgloss.Style
	Notice       lipgloss.Style

	Modal        lipgloss.Style
	ModalTitle   lipgloss.Style
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style

	statusColors map[models.Status]lipgloss.Color
	statusOther  lipgloss.Color
}

// DefaultTheme is blue chrome with green for active clients and yellow for
// leads; every other status is grey.
var DefaultTheme = Theme{
	Header:       lipgloss.NewStyle().Background(lipgloss.Color("25")).Foreground(lipgloss.Color("255")).Padding(0, 1),
	Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("25")),
	Control:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("25")),
	ActiveInput:  lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Background(lipgloss.Color("255")),
	ColumnHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("18")).Background(lipgloss.Color("153")),
	SortedHeader: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("18")).Background(lipgloss.Color("153")),
	Row:          lipgloss.NewStyle(),
	SelectedRow:  lipgloss.NewStyle().Background(lipgloss.Color("189")).Foreground(lipgloss.Color("16")),
	Hint:         lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	Notice:       lipgloss.NewStyle().Foreground(lipgloss.Color("166")),

	Modal:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("25")).Padding(1, 2),
	ModalTitle:   lipgloss.NewStyle().Bold(true),
	Label:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	FocusedLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),

	statusColors: map[models.Status]lipgloss.Color{
		models.StatusActive: lipgloss.Color("28"),
		models.StatusLead:   lipgloss.Color("136"),
	},
	statusOther: lipgloss.Color("243"),
}

// StatusStyle returns the badge style for a status.
func (theme Theme) StatusStyle(status models.Status) lipgloss.Style {
	color, ok := theme.statusColors[status]
	if !ok {
		color = theme.statusOther
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}
