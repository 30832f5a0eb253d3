package mpv

import (
	"bufio"
	"encoding/json"
	"io"
	"net"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/reel/internal/media"
)

// fakeMPV answers the subset of mpv's JSON IPC the engine uses.
type fakeMPV struct {
	socket string
	ln     net.Listener

	mu       sync.Mutex
	props    map[string]any
	commands []string
	// chatty prefixes every reply with an unsolicited event
	chatty bool
	// quitMode is "" to acknowledge quit, "drop" to hang up without a
	// reply, or an mpv error string to reject it
	quitMode string
	onQuit   func()
}

func startFake(t *testing.T) *fakeMPV {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", socket)
	require.NoError(t, err)

	f := &fakeMPV{
		socket: socket,
		ln:     ln,
		props:  map[string]any{"pause": true},
	}
	go f.serve()
	t.Cleanup(func() { ln.Close() })
	return f
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.ln.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMPV) handle(conn net.Conn) {
	defer conn.Close()
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		var req struct {
			Command   []any `json:"command"`
			RequestID int64 `json:"request_id"`
		}
		if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
			return
		}
		data, errStr := f.apply(req.Command)

		f.mu.Lock()
		chatty := f.chatty
		isQuit := req.Command[0] == "quit"
		quitMode, onQuit := f.quitMode, f.onQuit
		f.mu.Unlock()
		if isQuit && onQuit != nil {
			defer onQuit()
		}
		if isQuit && quitMode == "drop" {
			return
		}
		if chatty {
			_, _ = io.WriteString(conn, `{"event":"playback-restart"}`+"\n")
		}
		reply, _ := json.Marshal(map[string]any{
			"request_id": req.RequestID,
			"error":      errStr,
			"data":       data,
		})
		_, _ = conn.Write(append(reply, '\n'))
	}
}

func (f *fakeMPV) apply(cmd []any) (any, string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name, _ := cmd[0].(string)
	f.commands = append(f.commands, name)
	switch name {
	case "get_property":
		v, ok := f.props[cmd[1].(string)]
		if !ok {
			return nil, "property unavailable"
		}
		return v, "success"
	case "set_property":
		f.props[cmd[1].(string)] = cmd[2]
		return nil, "success"
	case "seek":
		if cmd[2] != "absolute" {
			return nil, "invalid parameter"
		}
		f.props["time-pos"] = cmd[1]
		return nil, "success"
	case "quit":
		if f.quitMode != "" && f.quitMode != "drop" {
			return nil, f.quitMode
		}
		return nil, "success"
	default:
		return nil, "invalid command"
	}
}

func (f *fakeMPV) prop(name string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.props[name]
}

func (f *fakeMPV) setQuitMode(mode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quitMode = mode
}

func (f *fakeMPV) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestEngine_PlayPause(t *testing.T) {
	f := startFake(t)
	e := Attach(f.socket, quietLog())
	defer e.Close()

	assert.False(t, e.CanPause(), "starts paused")

	require.NoError(t, e.Play())
	assert.Equal(t, false, f.prop("pause"))
	assert.True(t, e.CanPause())

	require.NoError(t, e.Pause())
	assert.Equal(t, true, f.prop("pause"))
	assert.False(t, e.CanPause())
}

func TestEngine_SeekAndPosition(t *testing.T) {
	f := startFake(t)
	e := Attach(f.socket, quietLog())
	defer e.Close()

	assert.Equal(t, time.Duration(0), e.Position(), "time-pos unavailable before load")

	require.NoError(t, e.SetPosition(1500*time.Millisecond))
	assert.InDelta(t, 1.5, f.prop("time-pos"), 1e-9)
	assert.Equal(t, 1500*time.Millisecond, e.Position())

	require.NoError(t, e.SetPosition(-time.Second))
	assert.InDelta(t, 0.0, f.prop("time-pos"), 1e-9)
}

func TestEngine_SkipsEvents(t *testing.T) {
	f := startFake(t)
	f.mu.Lock()
	f.chatty = true
	f.mu.Unlock()
	e := Attach(f.socket, quietLog())
	defer e.Close()

	require.NoError(t, e.SetPosition(2*time.Second))
	assert.Equal(t, 2*time.Second, e.Position())
}

func TestEngine_CloseAttachedLeavesProcess(t *testing.T) {
	f := startFake(t)
	e := Attach(f.socket, quietLog())

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	assert.NotContains(t, f.sent(), "quit")
	assert.ErrorIs(t, e.Play(), media.ErrClosed)
	assert.ErrorIs(t, e.Pause(), media.ErrClosed)
	assert.ErrorIs(t, e.SetPosition(time.Second), media.ErrClosed)
	assert.False(t, e.CanPause())
	assert.Equal(t, time.Duration(0), e.Position())
}

// ownedEngine is an engine that believes it started the process behind f;
// the fake "exits" when it handles quit.
func ownedEngine(f *fakeMPV) *Engine {
	e := Attach(f.socket, quietLog())
	e.cmd = &exec.Cmd{}
	e.exited = make(chan struct{})
	var once sync.Once
	f.mu.Lock()
	f.onQuit = func() { once.Do(func() { close(e.exited) }) }
	f.mu.Unlock()
	return e
}

func TestEngine_CloseOwnedQuits(t *testing.T) {
	f := startFake(t)
	e := ownedEngine(f)

	require.NoError(t, e.Close())
	assert.Equal(t, []string{"quit"}, f.sent())
	require.NoError(t, e.Close())
}

func TestEngine_CloseHangupIsSuccess(t *testing.T) {
	f := startFake(t)
	f.setQuitMode("drop")
	e := ownedEngine(f)

	assert.NoError(t, e.Close())
}

func TestEngine_CloseReturnsRejectedQuit(t *testing.T) {
	f := startFake(t)
	f.setQuitMode("invalid command")
	e := ownedEngine(f)

	err := e.Close()
	require.ErrorIs(t, err, ErrProperty)
	assert.Contains(t, err.Error(), "quit")
}

func TestEngine_CloseAfterExitSkipsQuit(t *testing.T) {
	f := startFake(t)
	e := ownedEngine(f)
	close(e.exited)

	require.NoError(t, e.Close())
	assert.Empty(t, f.sent())
}

func TestEngine_PositionGivesUpQuickly(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "silent.sock")
	ln, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	var (
		mu      sync.Mutex
		accepts int
		conns   []net.Conn
	)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			accepts++
			conns = append(conns, conn) // held open, never answered
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	})

	e := Attach(socket, quietLog())
	start := time.Now()
	assert.Equal(t, time.Duration(0), e.Position())
	assert.False(t, e.CanPause())
	assert.Less(t, time.Since(start), replyTimeout)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, accepts)
}

func TestClient_RejectedCommandIsNotRetried(t *testing.T) {
	f := startFake(t)
	c := newClient(f.socket)

	_, err := c.getFloat("duration")
	require.ErrorIs(t, err, ErrProperty)
	assert.Len(t, f.sent(), 1)
}

func TestClient_TypeMismatch(t *testing.T) {
	f := startFake(t)
	c := newClient(f.socket)

	_, err := c.getFloat("pause")
	assert.Error(t, err)
	_, err = c.peekBool("pause")
	assert.NoError(t, err)
}

func TestClient_UnreachableSocket(t *testing.T) {
	c := newClient(filepath.Join(t.TempDir(), "missing.sock"))

	_, err := c.command("get_property", "pid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
}

func TestSanitizeSource(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "/videos/a.mp4", want: "/videos/a.mp4"},
		{in: "  /videos/../videos/a.mp4 ", want: "/videos/a.mp4"},
		{in: "https://example.com/a.mp4", want: "https://example.com/a.mp4"},
		{in: "-flag.mp4", want: "-flag.mp4"},
		{in: "", wantErr: true},
		{in: "a\nb.mp4", wantErr: true},
	}
	for _, tt := range tests {
		got, err := sanitizeSource(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestLaunchArgs(t *testing.T) {
	args := launchArgs("/run/reel/x.sock", "-weird.mp4")

	assert.Contains(t, args, "--pause")
	assert.Contains(t, args, "--idle=yes")
	assert.Contains(t, args, "--input-ipc-server=/run/reel/x.sock")
	require.GreaterOrEqual(t, len(args), 2)
	assert.Equal(t, "--", args[len(args)-2], "options end before the source")
	assert.Equal(t, "-weird.mp4", args[len(args)-1])
}

func TestOpener_MissingBinary(t *testing.T) {
	o := &Opener{Binary: filepath.Join(t.TempDir(), "no-mpv"), SocketDir: t.TempDir()}

	_, err := o.Open("/videos/a.mp4")
	assert.Error(t, err)
}

func TestFromSeconds(t *testing.T) {
	assert.Equal(t, time.Duration(0), fromSeconds(-1))
	assert.Equal(t, 250*time.Millisecond, fromSeconds(0.25))
	assert.Equal(t, 90*time.Second, fromSeconds(90))
}

func TestEngine_Info(t *testing.T) {
	f := startFake(t)
	f.mu.Lock()
	f.props["duration"] = 12.5
	f.props["width"] = 1920.0
	f.props["height"] = 1080.0
	f.props["media-title"] = "Opening"
	f.mu.Unlock()
	e := Attach(f.socket, quietLog())
	defer e.Close()

	info, err := e.Info("/clips/opening.mkv")
	require.NoError(t, err)
	assert.Equal(t, 12500*time.Millisecond, info.Duration)
	assert.Equal(t, uint(1920), info.Width)
	assert.Equal(t, uint(1080), info.Height)
	assert.Equal(t, "Opening", info.Title)
	assert.Equal(t, "MKV", info.Format)
}

func TestEngine_InfoWithoutVideo(t *testing.T) {
	f := startFake(t)
	f.mu.Lock()
	f.props["duration"] = 3.0
	f.mu.Unlock()
	e := Attach(f.socket, quietLog())
	defer e.Close()

	info, err := e.Info("/clips/voice.ogg")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, info.Duration)
	assert.Zero(t, info.Width)
	assert.Equal(t, "voice", info.Title)
}
