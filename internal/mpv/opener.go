package mpv

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/reel/internal/media"
)

const (
	socketWaitRetries = 20
	socketWaitDelay   = 100 * time.Millisecond
)

// Opener starts one paused mpv process per source.
type Opener struct {
	Binary    string // default "mpv"
	SocketDir string // default os.TempDir()
	Log       *logrus.Entry
}

// Open launches mpv with source loaded and paused, and waits for its IPC
// socket.
func (o *Opener) Open(source string) (media.Engine, error) {
	target, err := sanitizeSource(source)
	if err != nil {
		return nil, err
	}
	socket, err := o.socketPath()
	if err != nil {
		return nil, err
	}

	bin := o.Binary
	if bin == "" {
		bin = "mpv"
	}
	cmd := exec.Command(bin, launchArgs(socket, target)...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdin, cmd.Stdout, cmd.Stderr = nil, nil, nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("mpv: start: %w", err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := waitForSocket(socket, exited); err != nil {
		_ = killProcess(cmd)
		<-exited
		_ = os.Remove(socket)
		return nil, fmt.Errorf("mpv: %w", err)
	}

	log := o.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithFields(logrus.Fields{"component": "mpv", "source": source})
	log.WithField("pid", cmd.Process.Pid).Debug("mpv started")

	return &Engine{
		ipc:    newClient(socket),
		log:    log,
		cmd:    cmd,
		exited: exited,
	}, nil
}

func launchArgs(socket, target string) []string {
	return []string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--pause",
		"--keep-open=yes",
		"--force-window=yes",
		"--input-ipc-server=" + socket,
		"--title=" + filepath.Base(target),
		"--",
		target,
	}
}

func (o *Opener) socketPath() (string, error) {
	dir := o.SocketDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mpv: socket dir: %w", err)
	}
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("mpv: socket name: %w", err)
	}
	return filepath.Join(dir, fmt.Sprintf("reel-%x.sock", b)), nil
}

// waitForSocket polls until the IPC socket accepts connections.
func waitForSocket(socket string, exited <-chan struct{}) error {
	for range socketWaitRetries {
		select {
		case <-exited:
			return errors.New("exited before socket was ready")
		case <-time.After(socketWaitDelay):
		}
		if conn, err := net.Dial("unix", socket); err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", socket, socketWaitRetries)
}

func sanitizeSource(source string) (string, error) {
	s := strings.TrimSpace(source)
	if s == "" {
		return "", errors.New("mpv: empty source")
	}
	if strings.ContainsAny(s, "\x00\n\r") {
		return "", errors.New("mpv: control characters in source")
	}
	if strings.Contains(s, "://") {
		return s, nil
	}
	return filepath.Clean(s), nil
}

var _ media.Opener = (*Opener)(nil)
