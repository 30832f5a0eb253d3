package popup

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestCompose_OverlaysVisibleCells(t *testing.T) {
	base := strings.Join([]string{
		"aaaaaaaaaa",
		"bbbbbbbbbb",
		"cccccccccc",
	}, "\n")
	overlay := "\n  XY\n"

	got := Compose(base, overlay, 10)
	want := strings.Join([]string{
		"aaaaaaaaaa",
		"bbXYbbbbbb",
		"cccccccccc",
	}, "\n")
	if got != want {
		t.Errorf("Compose() =\n%s\nwant\n%s", got, want)
	}
}

func TestCompose_PadsShortBase(t *testing.T) {
	got := Compose("ab", "    Z", 6)
	if got != "ab  Z " {
		t.Errorf("Compose() = %q, want %q", got, "ab  Z ")
	}
}

func TestCenter(t *testing.T) {
	got := Center("xx\nxx", 6, 4)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("Center() gave %d lines, want 3: %q", len(lines), got)
	}
	if lines[0] != "" || lines[1] != "  xx" || lines[2] != "  xx" {
		t.Errorf("Center() = %q", lines)
	}
}

func TestRenderBordered_FitsScreen(t *testing.T) {
	out := RenderBordered("Seek to", 40, 12)
	for _, line := range strings.Split(out, "\n") {
		if w := ansi.StringWidth(line); w > 40 {
			t.Errorf("line %q is %d wide, screen is 40", ansi.Strip(line), w)
		}
	}
	if !strings.Contains(ansi.Strip(out), "Seek to") {
		t.Error("content missing")
	}
}
