package app

import (
	"fmt"
	"strings"

	"github.com/llehouerou/reel/internal/timeline"
	"github.com/llehouerou/reel/internal/ui"
	"github.com/llehouerou/reel/internal/ui/popup"
	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/styles"
	"github.com/llehouerou/reel/internal/ui/timelinebar"
)

const keyHints = "space play/pause  enter select  ←/→ seek  [/] nudge  t set start  bksp reset  n/p next/prev  q quit"

// View renders the UI.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}
	l := m.layout()

	sections := []string{m.renderHeader()}
	if l.surface > 0 {
		sections = append(sections, m.renderSurface(l.surface))
	}
	sections = append(sections, m.renderTimeline(l.bar))
	if l.list > 0 {
		sections = append(sections, styles.Panel("Clips", m.Clips.View(), m.Width, l.list, !m.InputOpen))
	}
	sections = append(sections, m.renderStatus())
	view := strings.Join(sections, "\n")

	if m.InputOpen {
		box := popup.RenderBordered(m.TimeInput.View(), m.Width, m.Height)
		view = popup.Compose(view, box, m.Width)
	}
	return view
}

func (m Model) renderHeader() string {
	s := styles.T().S()
	t := styles.T()
	title := styles.Gradient("reel", t.Primary, t.Secondary)

	limit := m.player.PlayLimit()
	info := fmt.Sprintf("%d clips", m.set.Len())
	if limit != timeline.Unbounded {
		info += ", " + render.Timecode(limit)
	}
	return render.Row(title+"  "+s.Muted.Render(info), "", m.Width)
}

func (m Model) renderSurface(height int) string {
	surface := m.player.Surface()
	w := max(m.Width-ui.BorderHeight, 0)
	h := max(height-ui.BorderHeight, 0)
	return styles.Panel(surface.Name(), surface.Render(w, h), m.Width, height, false)
}

func (m Model) renderTimeline(height int) string {
	bar := timelinebar.Bar{
		Position: m.player.Position(),
		Playing:  m.player.IsPlaying(),
	}
	if limit := m.player.PlayLimit(); limit != timeline.Unbounded {
		bar.Length = limit
	}
	cur := m.set.Current()
	for _, c := range m.set.Clips() {
		bar.Spans = append(bar.Spans, timelinebar.Span{
			Start:  c.Start(),
			End:    c.End(),
			Active: c == cur,
		})
	}
	content := timelinebar.Render(bar, max(m.Width-ui.BorderHeight, 0))
	return styles.Panel("Timeline", content, m.Width, height, false)
}

func (m Model) renderStatus() string {
	s := styles.T().S()
	if m.ErrorMsg != "" {
		return s.Error.Render(render.Truncate(m.ErrorMsg, m.Width))
	}
	return s.Subtle.Render(render.Truncate(keyHints, m.Width))
}
