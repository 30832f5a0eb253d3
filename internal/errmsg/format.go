// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Clip operations
	OpClipLoad   Op = "load clip"
	OpClipOpen   Op = "open clip"
	OpClipMove   Op = "move clip"
	OpClipSelect Op = "select clip"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackPause Op = "pause playback"
	OpPlaybackSeek  Op = "seek"
	OpPlaybackSync  Op = "read playback position"

	// State
	OpStateLoad Op = "load saved state"
	OpStateSave Op = "save state"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// EngineOp maps a timeline engine operation name to its user-facing Op.
func EngineOp(name string) Op {
	switch name {
	case "play":
		return OpPlaybackStart
	case "pause":
		return OpPlaybackPause
	case "seek":
		return OpPlaybackSeek
	case "position":
		return OpPlaybackSync
	default:
		return Op(name)
	}
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
