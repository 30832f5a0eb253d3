// Package timelinebar draws the timeline: every clip's span, the active
// clip, and the cursor.
package timelinebar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/styles"
)

// Height is the number of lines Render produces.
const Height = 3

var (
	emptyBlock  = "░"
	filledBlock = "▓"
	cursorMark  = "▲"
)

// Span is one clip's placement.
type Span struct {
	Start, End time.Duration
	Active     bool
}

// Bar is what the timeline shows.
type Bar struct {
	Spans    []Span
	Position time.Duration
	// Length is the time the full width represents. Zero or negative means
	// "fit the spans and the cursor".
	Length  time.Duration
	Playing bool
}

type cell int

const (
	cellEmpty cell = iota
	cellSpan
	cellActive
	cellOverlap
)

// Render renders a three-line timeline of the given width:
//
//	▶ 0:12.5                    0:40.0
//	░░▓▓▓▓░░░░▓▓▓▓▓▓▓▓░░░░░░░░░▓▓▓░░░░
//	       ▲
func Render(b Bar, width int) string {
	if width <= 0 {
		return ""
	}
	length := b.length()

	status := "▶"
	if !b.Playing {
		status = "⏸"
	}
	s := styles.T().S()
	header := render.Row(
		s.Title.Render(status+" "+render.Timecode(b.Position)),
		s.Muted.Render(render.Timecode(length)),
		width,
	)

	var track strings.Builder
	for _, c := range cells(b.Spans, length, width) {
		track.WriteString(cellStyle(c).Render(cellChar(c)))
	}

	col := column(b.Position, length, width)
	marker := strings.Repeat(" ", col) +
		lipgloss.NewStyle().Foreground(styles.T().Secondary).Render(cursorMark)

	return header + "\n" + track.String() + "\n" + marker
}

func (b Bar) length() time.Duration {
	if b.Length > 0 {
		return b.Length
	}
	l := max(b.Position, time.Second)
	for _, sp := range b.Spans {
		l = max(l, sp.End)
	}
	return l
}

// cells classifies each column by the spans overlapping the time range it
// covers.
func cells(spans []Span, length time.Duration, width int) []cell {
	out := make([]cell, width)
	for i := range out {
		from := scale(length, i, width)
		to := scale(length, i+1, width)
		n, active := 0, false
		for _, sp := range spans {
			if sp.Start < to && from < sp.End {
				n++
				active = active || sp.Active
			}
		}
		switch {
		case n > 1:
			out[i] = cellOverlap
		case active:
			out[i] = cellActive
		case n == 1:
			out[i] = cellSpan
		}
	}
	return out
}

// column is the cell holding t, clamped to the bar.
func column(t, length time.Duration, width int) int {
	if length <= 0 || t <= 0 {
		return 0
	}
	c := int(float64(t) / float64(length) * float64(width))
	return min(c, width-1)
}

// scale is the time at the left edge of column i.
func scale(length time.Duration, i, width int) time.Duration {
	return time.Duration(float64(length) * float64(i) / float64(width))
}

func cellChar(c cell) string {
	if c == cellEmpty {
		return emptyBlock
	}
	return filledBlock
}

func cellStyle(c cell) lipgloss.Style {
	t := styles.T()
	switch c {
	case cellSpan:
		return lipgloss.NewStyle().Foreground(t.Span)
	case cellActive:
		return lipgloss.NewStyle().Foreground(t.SpanActive)
	case cellOverlap:
		return lipgloss.NewStyle().Foreground(t.Overlap)
	default:
		return lipgloss.NewStyle().Foreground(t.FgSubtle)
	}
}
