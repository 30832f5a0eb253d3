// Package handler chains key handlers: the first one that claims a key
// decides the command.
package handler

import tea "github.com/charmbracelet/bubbletea"

// Result is what a key handler did with a key.
type Result struct {
	Handled bool
	Cmd     tea.Cmd
}

// NotHandled passes the key on to the next handler.
var NotHandled = Result{}

// HandledNoCmd claims the key without a command.
var HandledNoCmd = Result{Handled: true}

// Handled claims the key and returns cmd.
func Handled(cmd tea.Cmd) Result {
	return Result{Handled: true, Cmd: cmd}
}

// Func handles one key press, given as tea.KeyMsg.String().
type Func func(key string) Result

// Keys maps exact keys to actions. It never claims other keys.
func Keys(actions map[string]func() tea.Cmd) Func {
	return func(key string) Result {
		if fn, ok := actions[key]; ok {
			return Handled(fn())
		}
		return NotHandled
	}
}

// Chain offers key to each handler in order and stops at the first that
// handles it.
func Chain(key string, handlers ...Func) (bool, tea.Cmd) {
	for _, h := range handlers {
		if r := h(key); r.Handled {
			return true, r.Cmd
		}
	}
	return false, nil
}
