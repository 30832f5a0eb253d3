// Package cliplist renders the clip table and handles navigation in it.
package cliplist

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/ui"
	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/styles"
)

// Row is one clip as the table shows it.
type Row struct {
	Name     string
	Start    time.Duration
	End      time.Duration
	Duration time.Duration
	Size     int64
	Active   bool // the player's clip
	Covering bool // contains the cursor
}

// Action represents what happened during Update.
type Action int

const (
	ActionNone  Action = iota
	ActionEnter        // select the row's clip
)

// Result is returned from Update to tell the parent what happened.
type Result struct {
	Action Action
	Index  int // row the action applies to, -1 if none
}

const (
	timeCol = 11
	sizeCol = 9
	markCol = 2
)

// Model is the clip table.
type Model struct {
	ui.Base
	rows []Row
	cur  cursor
}

// New creates an empty table.
func New() Model {
	return Model{cur: cursor{margin: ui.ScrollMargin}}
}

// SetRows replaces all rows and clamps the cursor to them.
func (m *Model) SetRows(rows []Row) {
	m.rows = rows
	m.cur.clampTo(len(rows))
	m.cur.ensureVisible(len(rows), m.listHeight())
}

func (m Model) Rows() []Row { return m.rows }

func (m Model) Len() int { return len(m.rows) }

// SelectedIndex returns the cursor row, -1 when the table is empty.
func (m Model) SelectedIndex() int {
	if len(m.rows) == 0 {
		return -1
	}
	return m.cur.pos
}

// Select moves the cursor to row i.
func (m *Model) Select(i int) {
	m.cur.jump(i, len(m.rows), m.listHeight())
}

func (m Model) listHeight() int {
	return m.ListHeight(ui.HeaderHeight)
}

// Update handles navigation keys and returns the action that occurred.
func (m *Model) Update(msg tea.Msg) Result {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.IsFocused() {
		return Result{Index: -1}
	}
	if m.cur.handleKey(key.String(), len(m.rows), m.listHeight()) {
		return Result{Index: -1}
	}
	if key.String() == "enter" && len(m.rows) > 0 {
		return Result{Action: ActionEnter, Index: m.cur.pos}
	}
	return Result{Index: -1}
}

// View renders the header and the visible rows.
func (m Model) View() string {
	width := m.Width()
	if width <= 0 || m.Height() <= 0 {
		return ""
	}
	s := styles.T().S()
	nameCol := max(width-markCol-3*timeCol-sizeCol, 4)

	lines := make([]string, 0, m.Height())
	lines = append(lines,
		s.Muted.Render(m.line("", "Clip", "Start", "End", "Length", "Size", nameCol)),
		s.Subtle.Render(render.Separator(width)),
	)
	if len(m.rows) == 0 {
		lines = append(lines, s.Subtle.Render("  no clips"))
	}

	start, end := m.cur.visible(len(m.rows), m.listHeight())
	for i := start; i < end; i++ {
		r := m.rows[i]
		mark := ""
		switch {
		case r.Active && r.Covering:
			mark = "▶"
		case r.Active:
			mark = "•"
		}
		line := m.line(mark, r.Name,
			render.Timecode(r.Start), render.Timecode(r.End), render.Timecode(r.Duration),
			render.Size(r.Size), nameCol)

		style := s.Base
		if r.Active {
			style = s.Active
		}
		if i == m.cur.pos && m.IsFocused() {
			style = style.Background(styles.T().BgCursor)
		}
		lines = append(lines, style.Render(render.Pad(line, width)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) line(mark, name, start, end, length, size string, nameCol int) string {
	return render.Pad(mark, markCol) +
		render.TruncateAndPad(name, nameCol) +
		leftPad(start, timeCol) + leftPad(end, timeCol) + leftPad(length, timeCol) +
		leftPad(size, sizeCol)
}

func leftPad(s string, width int) string {
	return strings.Repeat(" ", max(width-len(s), 0)) + s
}
