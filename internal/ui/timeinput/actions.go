package timeinput

import (
	"time"

	"github.com/llehouerou/reel/internal/ui/action"
)

// Result contains the time input result.
type Result struct {
	Value    time.Duration
	Context  any  // User-provided context passed through
	Canceled bool // True if user pressed Escape
}

// ActionType implements action.Action.
func (a Result) ActionType() string { return "timeinput.result" }

// Source is the action.Msg source of this component.
const Source = "timeinput"

// ActionMsg creates an action.Msg for a timeinput action.
func ActionMsg(a action.Action) action.Msg {
	return action.Msg{Source: Source, Action: a}
}
