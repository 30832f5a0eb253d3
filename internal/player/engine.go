package player

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/reel/internal/media"
)

// speaker is process-wide; its rate is fixed by the first source played and
// later sources are resampled to it.
var (
	speakerMu   sync.Mutex
	speakerRate beep.SampleRate
	speakerUp   bool
)

func ensureSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if !speakerUp {
		if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
			return 0, err
		}
		speakerRate = rate
		speakerUp = true
	}
	return speakerRate, nil
}

// Engine plays one decoded audio source through the shared speaker.
type Engine struct {
	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	queued   bool
	closed   bool
}

// Opener opens audio files into beep engines.
type Opener struct{}

// Open decodes source. The engine starts paused at position zero.
func (Opener) Open(source string) (media.Engine, error) {
	streamer, format, err := decodeFile(source)
	if err != nil {
		return nil, err
	}
	rate, err := ensureSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		return nil, err
	}

	var out beep.Streamer = streamer
	if format.SampleRate != rate {
		out = beep.Resample(4, format.SampleRate, rate, streamer)
	}
	return &Engine{
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: out, Paused: true},
	}, nil
}

func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return media.ErrClosed
	}
	if !e.queued {
		// The speaker drops a streamer once it is drained; re-queue on the
		// next Play after that.
		speaker.Play(beep.Seq(e.ctrl, beep.Callback(e.drained)))
		e.queued = true
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (e *Engine) drained() {
	e.mu.Lock()
	e.queued = false
	e.mu.Unlock()
}

func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return media.ErrClosed
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

func (e *Engine) CanPause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	speaker.Lock()
	defer speaker.Unlock()
	return !e.ctrl.Paused
}

func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return e.format.SampleRate.D(e.streamer.Position())
}

// SetPosition seeks the source. Offsets past the end park the playhead on
// the last sample.
func (e *Engine) SetPosition(d time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return media.ErrClosed
	}
	n := e.format.SampleRate.N(d)
	n = min(max(n, 0), max(e.streamer.Len()-1, 0))
	speaker.Lock()
	defer speaker.Unlock()
	return e.streamer.Seek(n)
}

// Duration is the decoded length of the source.
func (e *Engine) Duration() time.Duration {
	return e.format.SampleRate.D(e.streamer.Len())
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	speaker.Lock()
	e.ctrl.Paused = true
	e.ctrl.Streamer = nil
	speaker.Unlock()
	return e.streamer.Close()
}

// Verify Engine implements media.Engine at compile time.
var (
	_ media.Engine = (*Engine)(nil)
	_ media.Opener = Opener{}
)
