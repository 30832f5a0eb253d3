package timelinebar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

func TestCells(t *testing.T) {
	spans := []Span{
		{Start: 0, End: 2 * time.Second},
		{Start: 4 * time.Second, End: 6 * time.Second, Active: true},
		{Start: 5 * time.Second, End: 7 * time.Second},
	}
	got := cells(spans, 10*time.Second, 10)
	want := []cell{
		cellSpan, cellSpan, cellEmpty, cellEmpty,
		cellActive, cellOverlap, cellSpan,
		cellEmpty, cellEmpty, cellEmpty,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestColumn(t *testing.T) {
	tests := []struct {
		t      time.Duration
		length time.Duration
		width  int
		want   int
	}{
		{0, 10 * time.Second, 10, 0},
		{-time.Second, 10 * time.Second, 10, 0},
		{5 * time.Second, 10 * time.Second, 10, 5},
		{5999 * time.Millisecond, 10 * time.Second, 10, 5},
		{10 * time.Second, 10 * time.Second, 10, 9},
		{time.Minute, 10 * time.Second, 10, 9},
		{time.Second, 0, 10, 0},
	}
	for _, tt := range tests {
		if got := column(tt.t, tt.length, tt.width); got != tt.want {
			t.Errorf("column(%v, %v, %d) = %d, want %d", tt.t, tt.length, tt.width, got, tt.want)
		}
	}
}

func TestBar_LengthFitsContent(t *testing.T) {
	b := Bar{Spans: []Span{{Start: time.Second, End: 8 * time.Second}}, Position: 3 * time.Second}
	if got := b.length(); got != 8*time.Second {
		t.Errorf("length() = %v, want 8s", got)
	}
	b.Position = 12 * time.Second
	if got := b.length(); got != 12*time.Second {
		t.Errorf("length() with cursor past clips = %v, want 12s", got)
	}
	if got := (Bar{}).length(); got != time.Second {
		t.Errorf("empty length() = %v, want 1s", got)
	}
	b.Length = time.Minute
	if got := b.length(); got != time.Minute {
		t.Errorf("explicit length() = %v", got)
	}
}

func TestRender(t *testing.T) {
	out := ansi.Strip(Render(Bar{
		Spans:    []Span{{Start: 0, End: 5 * time.Second, Active: true}},
		Position: 5 * time.Second,
		Length:   10 * time.Second,
		Playing:  true,
	}, 20))

	lines := strings.Split(out, "\n")
	if len(lines) != Height {
		t.Fatalf("Render() gave %d lines, want %d", len(lines), Height)
	}
	if !strings.HasPrefix(lines[0], "▶ 0:05.0") || !strings.HasSuffix(lines[0], "0:10.0") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != strings.Repeat("▓", 10)+strings.Repeat("░", 10) {
		t.Errorf("track = %q", lines[1])
	}
	if lines[2] != strings.Repeat(" ", 10)+"▲" {
		t.Errorf("marker = %q", lines[2])
	}

	if Render(Bar{}, 0) != "" {
		t.Error("zero width should render empty")
	}
	if paused := ansi.Strip(Render(Bar{}, 20)); !strings.HasPrefix(paused, "⏸") {
		t.Errorf("paused header = %q", paused)
	}
}
