package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func borderColor(focused bool) lipgloss.Color {
	if focused {
		return T().BorderFocus
	}
	return T().Border
}

// PanelStyle returns the bordered panel style for the given focus state.
func PanelStyle(focused bool) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor(focused))
}

// Panel renders content in a panel of the given outer size, with title set
// into the top border line.
func Panel(title, content string, width, height int, focused bool) string {
	if width < 4 || height < 3 {
		return ""
	}
	box := PanelStyle(focused).Width(width - 2).Height(height - 2).Render(content)
	if title == "" {
		return box
	}

	nl := strings.IndexByte(box, '\n')
	if nl < 0 {
		return box
	}
	border := lipgloss.NewStyle().Foreground(borderColor(focused))
	heading := " " + T().S().Title.Render(title) + " "
	fill := width - 3 - lipgloss.Width(heading)
	if fill < 0 {
		return box
	}
	top := border.Render("╭─") + heading + border.Render(strings.Repeat("─", fill)+"╮")
	return top + box[nl:]
}
