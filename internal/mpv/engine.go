package mpv

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/reel/internal/media"
)

const quitTimeout = 3 * time.Second

// Engine controls one mpv instance with one loaded source.
type Engine struct {
	ipc *client
	log *logrus.Entry

	// nil when attached to an mpv we did not start
	cmd    *exec.Cmd
	exited chan struct{}

	mu     sync.Mutex
	closed bool
}

// Attach returns an engine for an mpv already listening on socket. Close
// leaves that process running.
func Attach(socket string, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{ipc: newClient(socket), log: log.WithField("socket", socket)}
}

func (e *Engine) Play() error {
	if e.isClosed() {
		return media.ErrClosed
	}
	return e.ipc.set("pause", false)
}

func (e *Engine) Pause() error {
	if e.isClosed() {
		return media.ErrClosed
	}
	return e.ipc.set("pause", true)
}

// CanPause reports whether mpv is currently unpaused. It asks once and
// reports false when mpv does not answer quickly.
func (e *Engine) CanPause() bool {
	if e.isClosed() {
		return false
	}
	paused, err := e.ipc.peekBool("pause")
	return err == nil && !paused
}

// Position is mpv's time-pos. It reads as zero while nothing is loaded or
// mpv does not answer within a short deadline; the poller asks again on
// the next tick.
func (e *Engine) Position() time.Duration {
	if e.isClosed() {
		return 0
	}
	secs, err := e.ipc.peekFloat("time-pos")
	if err != nil {
		if !errors.Is(err, ErrProperty) {
			e.log.WithError(err).Debug("mpv time-pos unavailable")
		}
		return 0
	}
	return fromSeconds(secs)
}

func (e *Engine) SetPosition(d time.Duration) error {
	if e.isClosed() {
		return media.ErrClosed
	}
	_, err := e.ipc.command("seek", max(d, 0).Seconds(), "absolute")
	return err
}

// Close quits mpv if this engine started it, killing it when it does not
// exit in time. A quit that mpv rejects, a failed kill and a socket that
// cannot be removed are returned. Later calls are no-ops.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	if e.cmd == nil {
		return nil
	}

	var qerr error
	select {
	case <-e.exited:
	default:
		qerr = e.quit()
	}

	var err error
	select {
	case <-e.exited:
		// a connection error on quit is only one when mpv stayed up
		if errors.Is(qerr, ErrProperty) {
			err = qerr
		}
	case <-time.After(quitTimeout):
		e.log.Warn("mpv did not quit, killing")
		err = qerr
		if kerr := killProcess(e.cmd); kerr != nil {
			err = errors.Join(err, fmt.Errorf("mpv: kill: %w", kerr))
		}
		<-e.exited
	}
	if rerr := os.Remove(e.ipc.socket); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
		err = errors.Join(err, rerr)
	}
	return err
}

// quit asks mpv to exit. mpv may close the connection before its reply
// arrives, which is a success.
func (e *Engine) quit() error {
	_, err := e.ipc.once(replyTimeout, "quit")
	if err == nil || errors.Is(err, errClosed) {
		return nil
	}
	return fmt.Errorf("mpv: quit: %w", err)
}

var _ media.Engine = (*Engine)(nil)
