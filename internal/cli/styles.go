package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/claude/trainload/internal/dashboard"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	bandStyles = map[dashboard.Band]lipgloss.Style{
		dashboard.BandLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),  // green
		dashboard.BandModerate: lipgloss.NewStyle().Foreground(lipgloss.Color("220")), // yellow
		dashboard.BandHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")), // orange
		dashboard.BandMaximal:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

func bandStyle(rpe int) lipgloss.Style {
	if s, ok := bandStyles[dashboard.BandForRPE(rpe)]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// rpeLabel renders "7 (Very hard)" in the RPE band colour.
func rpeLabel(rpe int) string {
	text := fmt.Sprintf("%d", rpe)
	if d := dashboard.DescribeRPE(rpe); d != "" {
		text += " (" + d + ")"
	}
	return bandStyle(rpe).Render(text)
}
