// Package mpv drives an mpv process over its JSON IPC socket as a media
// engine.
package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// ErrProperty is returned when mpv rejects a command, e.g. a property that is
// unavailable while nothing is loaded.
var ErrProperty = errors.New("mpv: command rejected")

// errClosed is a connection mpv closed without replying, as it does when it
// exits on quit.
var errClosed = errors.New("read: connection closed before reply")

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	replyTimeout = time.Second
	// reads on the owner goroutine, once per poll tick
	peekTimeout = 150 * time.Millisecond
)

type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcReply is either a command reply or an event; events carry no
// request_id and are skipped.
type ipcReply struct {
	RequestID *int64 `json:"request_id"`
	Event     string `json:"event"`
	Data      any    `json:"data"`
	Error     string `json:"error"`
}

// client sends one command per connection, which keeps it independent of
// the broadcast events mpv pushes to long-lived clients.
type client struct {
	socket string

	mu     sync.Mutex
	nextID int64
}

func newClient(socket string) *client {
	return &client{socket: socket}
}

// command sends args and returns the reply data. Connection failures are
// retried; mpv-level errors are not.
func (c *client) command(args ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	var lastErr error
	for attempt := range maxRetries {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}
		data, err := c.roundTrip(id, replyTimeout, args)
		if err == nil || errors.Is(err, ErrProperty) {
			return data, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("mpv: %v failed after %d attempts: %w", args[0], maxRetries, lastErr)
}

// once sends args a single time and waits at most timeout for the reply.
func (c *client) once(timeout time.Duration, args ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	return c.roundTrip(c.nextID, timeout, args)
}

func (c *client) roundTrip(id int64, timeout time.Duration, args []any) (any, error) {
	conn, err := net.DialTimeout("unix", c.socket, timeout)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(ipcCommand{Command: args, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	// newline-delimited JSON
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		var r ipcReply
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		if r.RequestID == nil || *r.RequestID != id {
			continue
		}
		if r.Error != "" && r.Error != "success" {
			return nil, fmt.Errorf("%w: %v: %s", ErrProperty, args, r.Error)
		}
		return r.Data, nil
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return nil, errClosed
}

func (c *client) set(name string, value any) error {
	_, err := c.command("set_property", name, value)
	return err
}

func (c *client) getFloat(name string) (float64, error) {
	data, err := c.command("get_property", name)
	if err != nil {
		return 0, err
	}
	return asFloat(name, data)
}

// peekFloat reads name with a single short attempt.
func (c *client) peekFloat(name string) (float64, error) {
	data, err := c.once(peekTimeout, "get_property", name)
	if err != nil {
		return 0, err
	}
	return asFloat(name, data)
}

func asFloat(name string, data any) (float64, error) {
	v, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("mpv: property %s: expected number, got %T", name, data)
	}
	return v, nil
}

// peekBool reads name with a single short attempt.
func (c *client) peekBool(name string) (bool, error) {
	data, err := c.once(peekTimeout, "get_property", name)
	if err != nil {
		return false, err
	}
	v, ok := data.(bool)
	if !ok {
		return false, fmt.Errorf("mpv: property %s: expected bool, got %T", name, data)
	}
	return v, nil
}
