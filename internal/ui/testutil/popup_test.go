package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"enter", "enter"},
		{"space", " "},
		{"left", "left"},
		{"t", "t"},
		{"[", "["},
	}
	for _, tt := range tests {
		if got := Key(tt.key).String(); got != tt.want {
			t.Errorf("Key(%q).String() = %q, want %q", tt.key, got, tt.want)
		}
	}
}

type doneMsg struct{}

func TestExecuteCmd_FlattensBatch(t *testing.T) {
	cmd := tea.Batch(nil, func() tea.Msg { return doneMsg{} })
	if _, ok := ExecuteCmd(cmd).(doneMsg); !ok {
		t.Error("ExecuteCmd did not return the batched message")
	}
	if ExecuteCmd(nil) != nil {
		t.Error("ExecuteCmd(nil) should be nil")
	}
}

func TestContainsLine(t *testing.T) {
	if !ContainsLine("a\nhello world\nb", "lo wo") {
		t.Error("ContainsLine missed a match")
	}
	if ContainsLine("hello\nworld", "lo\nwo") {
		t.Error("ContainsLine matched across lines")
	}
}
