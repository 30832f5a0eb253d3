package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/reel/internal/ui/styles"
)

// RenderBordered wraps content in a rounded border and centers it on a
// screen of the given size.
func RenderBordered(content string, screenW, screenH int) string {
	width := min(lipgloss.Width(content)+6, screenW-4) // padding + border
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().BorderFocus).
		Padding(1, 2).
		Width(max(width-2, 0)).
		Render(content)
	return Center(box, screenW, screenH)
}

// Center places a pre-rendered box in the middle of the screen. Lines are
// left-padded only; Compose treats leading spaces as transparent.
func Center(box string, screenW, screenH int) string {
	lines := strings.Split(box, "\n")
	padTop := max((screenH-len(lines))/2, 0)
	padLeft := max((screenW-lipgloss.Width(box))/2, 0)

	var b strings.Builder
	for range padTop {
		b.WriteString("\n")
	}
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Repeat(" ", padLeft))
		b.WriteString(line)
	}
	return b.String()
}

// Compose overlays popupView on base. Visually empty overlay lines and the
// leading spaces of each line leave the base untouched. ANSI-aware.
func Compose(base, popupView string, width int) string {
	baseLines := strings.Split(base, "\n")

	for i, line := range strings.Split(popupView, "\n") {
		if i >= len(baseLines) {
			break
		}
		plain := ansi.Strip(line)
		if strings.TrimSpace(plain) == "" {
			continue
		}
		startCol := len(plain) - len(strings.TrimLeft(plain, " "))
		endCol := ansi.StringWidth(strings.TrimRight(plain, " "))

		baseLine := baseLines[i]
		if w := ansi.StringWidth(baseLine); w < width {
			baseLine += strings.Repeat(" ", width-w)
		}

		// a wide rune cut at either edge is replaced by spaces
		prefix := ansi.Cut(baseLine, 0, startCol)
		if w := ansi.StringWidth(prefix); w < startCol {
			prefix += strings.Repeat(" ", startCol-w)
		}
		result := prefix + ansi.Cut(line, startCol, endCol)
		if endCol < width {
			suffix := ansi.Cut(baseLine, endCol, width)
			if w := ansi.StringWidth(suffix); w < width-endCol {
				suffix = strings.Repeat(" ", width-endCol-w) + suffix
			}
			result += suffix
		}
		baseLines[i] = result
	}

	return strings.Join(baseLines, "\n")
}
