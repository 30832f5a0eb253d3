package timeline

import (
	"errors"
	"io"
	"testing"
	"testing/synctest"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/reel/internal/clip"
	"github.com/llehouerou/reel/internal/dispatch"
	"github.com/llehouerou/reel/internal/media"
	"github.com/llehouerou/reel/internal/timerpool"
)

const noPoll = time.Hour

type harness struct {
	q      *dispatch.Queue
	pool   *timerpool.Pool
	opener *media.MockOpener
	p      *Player
}

// newHarness must be called inside a synctest bubble.
func newHarness(poll time.Duration) *harness {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := &harness{
		q:      dispatch.NewQueue(),
		pool:   timerpool.New(nil),
		opener: media.NewMockOpener(),
	}
	h.p = New(Options{
		Dispatcher:   h.q,
		Pool:         h.pool,
		PollInterval: poll,
		Logger:       logrus.NewEntry(logger),
	})
	return h
}

func (h *harness) clip(name string, start, duration time.Duration) *clip.Clip {
	return clip.New(name, name+".wav", duration, h.opener, clip.WithStart(start))
}

// advance lets virtual time pass and runs whatever was dispatched meanwhile.
func (h *harness) advance(d time.Duration) {
	time.Sleep(d)
	synctest.Wait()
	h.q.Drain()
}

func (h *harness) close() {
	h.p.Close()
	synctest.Wait()
	h.q.Drain()
}

func TestPlayer_InitialState(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		p := h.p
		assert.Equal(t, time.Duration(0), p.Position())
		assert.True(t, p.IsPaused())
		assert.False(t, p.IsPlaying())
		assert.Equal(t, StatePaused, p.State())
		assert.Equal(t, Unbounded, p.PlayLimit())
		assert.Nil(t, p.Clip())
		assert.Same(t, p.DefaultSurface(), p.Surface())

		snap := p.Snapshot()
		assert.False(t, snap.HasClip)
		assert.False(t, snap.Playing)
		assert.Equal(t, Unbounded, snap.PlayLimit)
	})
}

func TestPlayer_PlayWithoutClipIsNoop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(250 * time.Millisecond)
		defer h.close()

		sub := h.p.Subscribe()
		h.p.Play()
		h.advance(time.Second)

		assert.False(t, h.p.IsPlaying())
		assert.Equal(t, time.Duration(0), h.p.Position())
		assert.Empty(t, sub.StateChanged)
	})
}

func TestPlayer_SetVideoWhilePlayingFails(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		a := h.clip("a", 0, 10*time.Second)
		b := h.clip("b", 20*time.Second, 10*time.Second)
		require.NoError(t, h.p.SetVideo(a))
		h.p.Play()

		err := h.p.SetVideo(b)
		require.ErrorIs(t, err, ErrPlaying)
		require.ErrorIs(t, err, ErrInvalidState)
		assert.Same(t, a, h.p.Clip())

		h.p.Pause()
		require.NoError(t, h.p.SetVideo(b))
		assert.Same(t, b, h.p.Clip())
	})
}

func TestPlayer_BoundaryPrecision(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		c := h.clip("a", 5*time.Second, 5*time.Second)
		require.NoError(t, h.p.SetVideo(c))
		h.p.Seek(3 * time.Second)
		h.p.Play()

		h.advance(2*time.Second - time.Millisecond)
		assert.Equal(t, 3*time.Second, h.p.Position())
		assert.Nil(t, h.opener.Engine(c.Source()), "source must not open before the clip starts")

		h.advance(time.Millisecond)
		assert.Equal(t, 5*time.Second, h.p.Position())
		assert.True(t, h.p.IsPlaying())
		engine := h.opener.Engine(c.Source())
		require.NotNil(t, engine)
		assert.True(t, engine.Playing())
		assert.Equal(t, time.Duration(0), engine.Position())
		assert.Equal(t, 1, h.pool.InUse(), "end boundary must be armed")

		h.advance(5*time.Second - time.Millisecond)
		assert.Equal(t, 5*time.Second, h.p.Position())

		h.advance(time.Millisecond)
		assert.Equal(t, 10*time.Second, h.p.Position())
		assert.True(t, h.p.IsPlaying())
		assert.False(t, engine.Playing(), "engine pauses when the cursor leaves the clip")
		assert.Equal(t, 0, h.pool.InUse())
	})
}

func TestPlayer_PlayLimitClampsSeek(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		h.p.SetPlayLimit(8 * time.Second)
		h.p.Seek(9 * time.Second)

		assert.Equal(t, 8*time.Second, h.p.Position())
		assert.False(t, h.p.IsPlaying())
	})
}

func TestPlayer_PlayLimitClampsSeekWhilePlaying(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		require.NoError(t, h.p.SetVideo(h.clip("a", 20*time.Second, time.Second)))
		h.p.SetPlayLimit(8 * time.Second)
		h.p.Play()
		h.p.Seek(9 * time.Second)

		assert.Equal(t, 8*time.Second, h.p.Position())
		assert.False(t, h.p.IsPlaying())
		synctest.Wait()
		assert.Equal(t, 0, h.pool.InUse())
	})
}

func TestPlayer_PlayLimitClampsTicks(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(250 * time.Millisecond)
		defer h.close()

		require.NoError(t, h.p.SetVideo(h.clip("a", 20*time.Second, time.Second)))
		h.p.SetPlayLimit(8 * time.Second)
		h.p.Seek(7 * time.Second)
		sub := h.p.Subscribe()
		h.p.Play()

		h.advance(2 * time.Second)

		assert.Equal(t, 8*time.Second, h.p.Position())
		assert.False(t, h.p.IsPlaying())
		require.Len(t, sub.StateChanged, 2)
		assert.Equal(t, StateChange{Previous: StatePaused, Current: StatePlaying}, <-sub.StateChanged)
		assert.Equal(t, StateChange{Previous: StatePlaying, Current: StatePaused}, <-sub.StateChanged)
	})
}

func TestPlayer_SeekRoundTrip(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		require.NoError(t, h.p.SetVideo(h.clip("a", 2*time.Second, 4*time.Second)))
		for _, target := range []time.Duration{0, time.Second, 2 * time.Second, 5 * time.Second, 6 * time.Second, time.Minute} {
			h.p.Seek(target)
			assert.Equal(t, target, h.p.Position(), "paused seek to %s", target)
		}

		h.p.Play()
		for _, target := range []time.Duration{0, 3 * time.Second, 6 * time.Second, time.Minute} {
			h.p.Seek(target)
			assert.Equal(t, target, h.p.Position(), "playing seek to %s", target)
			assert.True(t, h.p.IsPlaying())
		}
	})
}

func TestPlayer_PlayAndPauseAreIdempotent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		c := h.clip("a", 0, 10*time.Second)
		require.NoError(t, h.p.SetVideo(c))
		sub := h.p.Subscribe()

		h.p.Play()
		h.p.Play()
		engine := h.opener.Engine(c.Source())
		require.NotNil(t, engine)
		assert.Equal(t, 1, engine.PlayCalls())
		assert.Len(t, sub.StateChanged, 1)

		h.p.Pause()
		h.p.Pause()
		assert.Equal(t, 1, engine.PauseCalls())
		assert.Len(t, sub.StateChanged, 2)
	})
}

func TestPlayer_ToggleSwitchesState(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		require.NoError(t, h.p.SetVideo(h.clip("a", 0, time.Second)))
		h.p.Toggle()
		assert.True(t, h.p.IsPlaying())
		h.p.Toggle()
		assert.True(t, h.p.IsPaused())
	})
}

func TestPlayer_PauseStopsPollingAndTimers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(250 * time.Millisecond)
		defer h.close()

		require.NoError(t, h.p.SetVideo(h.clip("a", 5*time.Second, time.Second)))
		h.p.Play()
		h.advance(time.Second)
		pos := h.p.Position()
		require.Positive(t, pos)

		h.p.Pause()
		h.advance(10 * time.Second)

		assert.Equal(t, pos, h.p.Position())
		assert.Equal(t, 0, h.pool.InUse())
		assert.Nil(t, h.opener.Engine("a.wav"))
	})
}

func TestPlayer_StaleBoundaryIsDropped(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		require.NoError(t, h.p.SetVideo(h.clip("a", 2*time.Second, time.Second)))
		h.p.Play()

		time.Sleep(2 * time.Second)
		synctest.Wait()
		require.Equal(t, 1, h.q.Len(), "boundary wake-up should be queued")

		h.p.Pause()
		h.q.Drain()

		assert.Equal(t, time.Duration(0), h.p.Position())
		assert.False(t, h.p.IsPlaying())
	})
}

func TestPlayer_StaleTicksAreDropped(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(250 * time.Millisecond)
		defer h.close()

		require.NoError(t, h.p.SetVideo(h.clip("a", time.Minute, time.Second)))
		h.p.Play()

		time.Sleep(time.Second)
		synctest.Wait()
		require.Positive(t, h.q.Len())

		h.p.Pause()
		h.p.Play()
		h.q.Drain()

		assert.Equal(t, time.Duration(0), h.p.Position())
	})
}

func TestPlayer_PlayInsideClipSetsNativeOffset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		c := h.clip("a", 2*time.Second, 8*time.Second)
		require.NoError(t, h.p.SetVideo(c))
		h.p.Seek(5 * time.Second)
		h.p.Play()

		engine := h.opener.Engine(c.Source())
		require.NotNil(t, engine)
		assert.True(t, engine.Playing())
		assert.Equal(t, 3*time.Second, engine.Position())

		// end boundary armed for the remaining 5s
		h.advance(5 * time.Second)
		assert.Equal(t, 10*time.Second, h.p.Position())
	})
}

func TestPlayer_TicksFollowEngineInsideClip(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(250 * time.Millisecond)
		defer h.close()

		c := h.clip("a", 4*time.Second, 10*time.Second)
		require.NoError(t, h.p.SetVideo(c))
		h.p.Seek(4 * time.Second)
		h.p.Play()

		engine := h.opener.Engine(c.Source())
		require.NotNil(t, engine)
		engine.Advance(1500 * time.Millisecond)
		h.advance(250 * time.Millisecond)

		assert.Equal(t, 5500*time.Millisecond, h.p.Position())
	})
}

func TestPlayer_TicksAdvanceOnWallTimeOutsideClip(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(250 * time.Millisecond)
		defer h.close()

		require.NoError(t, h.p.SetVideo(h.clip("a", time.Minute, time.Second)))
		h.p.Play()

		var last time.Duration
		for range 8 {
			h.advance(250 * time.Millisecond)
			assert.GreaterOrEqual(t, h.p.Position(), last)
			last = h.p.Position()
		}
		// first tick after Start reports zero elapsed
		assert.Equal(t, 1750*time.Millisecond, h.p.Position())
	})
}

func TestPlayer_SurfaceFollowsContainment(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		c := h.clip("a", 5*time.Second, 5*time.Second)
		sub := h.p.Subscribe()
		require.NoError(t, h.p.SetVideo(c))
		require.Len(t, sub.ClipChanged, 1)
		<-sub.SurfaceChanged

		h.p.Seek(6 * time.Second)
		require.Len(t, sub.SurfaceChanged, 1)
		ev := <-sub.SurfaceChanged
		assert.Equal(t, "a", ev.Surface.Name())
		assert.Equal(t, "a", h.p.Surface().Name())

		h.p.Seek(7 * time.Second)
		assert.Empty(t, sub.SurfaceChanged, "moving inside the clip keeps the surface")

		h.p.Seek(10 * time.Second)
		require.Len(t, sub.SurfaceChanged, 1)
		ev = <-sub.SurfaceChanged
		assert.Same(t, h.p.DefaultSurface(), ev.Surface)
	})
}

func TestPlayer_SetDefaultSurface(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		sub := h.p.Subscribe()
		red := media.MustSolid("#FF0000")
		h.p.SetDefaultSurface(red)

		assert.Same(t, red, h.p.Surface())
		require.Len(t, sub.SurfaceChanged, 1)
	})
}

func TestPlayer_ClipMoveReseeks(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		c := h.clip("a", 0, 10*time.Second)
		require.NoError(t, h.p.SetVideo(c))
		h.p.Seek(3 * time.Second)
		engine := h.opener.Engine(c.Source())
		require.NotNil(t, engine)
		assert.Equal(t, 3*time.Second, engine.Position())

		c.SetStart(2 * time.Second)
		assert.Equal(t, time.Second, engine.Position())
		assert.Equal(t, 3*time.Second, h.p.Position())
		assert.Equal(t, 2*time.Second, h.p.Snapshot().ClipStart)
	})
}

func TestPlayer_ClipMoveWhilePlayingRearms(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		c := h.clip("a", 5*time.Second, 5*time.Second)
		require.NoError(t, h.p.SetVideo(c))
		h.p.Play()
		c.SetStart(time.Second)
		h.advance(time.Second)

		assert.Equal(t, time.Second, h.p.Position())
		engine := h.opener.Engine(c.Source())
		require.NotNil(t, engine)
		assert.True(t, engine.Playing())
		assert.Equal(t, 1, h.pool.InUse())
	})
}

func TestPlayer_DetachedClipIsIgnored(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		a := h.clip("a", 0, 10*time.Second)
		b := h.clip("b", 0, 10*time.Second)
		require.NoError(t, h.p.SetVideo(a))
		require.NoError(t, h.p.SetVideo(b))
		h.p.Seek(time.Second)

		seeks := len(h.opener.Engine(b.Source()).SeekCalls())
		a.SetStart(5 * time.Second)
		assert.Len(t, h.opener.Engine(b.Source()).SeekCalls(), seeks)
		// a was opened for its surface while active; detaching stops the seeks
		assert.Empty(t, h.opener.Engine(a.Source()).SeekCalls())
	})
}

func TestPlayer_EngineErrorsAreReported(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		openErr := errors.New("no such codec")
		h.opener.SetError(openErr)
		c := h.clip("a", 0, 10*time.Second)
		require.NoError(t, h.p.SetVideo(c))
		sub := h.p.Subscribe()

		h.p.Seek(2 * time.Second)
		assert.Equal(t, 2*time.Second, h.p.Position())
		require.NotEmpty(t, sub.Error)
		ev := <-sub.Error
		assert.Equal(t, "seek", ev.Operation)
		assert.Equal(t, c.Source(), ev.Source)
		assert.ErrorIs(t, ev.Err, openErr)

		h.p.Play()
		assert.True(t, h.p.IsPlaying(), "engine failures do not change transport state")
		assert.Same(t, h.p.DefaultSurface(), h.p.Surface(), "unopenable clip falls back to the default surface")
	})
}

func TestPlayer_PauseSkipsEngineThatCannotPause(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		c := h.clip("a", 0, 10*time.Second)
		require.NoError(t, h.p.SetVideo(c))
		h.p.Play()
		engine := h.opener.Engine(c.Source())
		require.NotNil(t, engine)
		engine.SetCanPause(false)

		h.p.Pause()
		assert.Equal(t, 0, engine.PauseCalls())
	})
}

func TestPlayer_SetVideoNilClears(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		require.NoError(t, h.p.SetVideo(h.clip("a", 0, 10*time.Second)))
		h.p.Seek(time.Second)
		require.NoError(t, h.p.SetVideo(nil))

		assert.Nil(t, h.p.Clip())
		assert.Same(t, h.p.DefaultSurface(), h.p.Surface())
		assert.False(t, h.p.Snapshot().HasClip)
	})
}

func TestPlayer_SnapshotFromOtherGoroutine(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(noPoll)
		defer h.close()

		require.NoError(t, h.p.SetVideo(h.clip("a", time.Second, 2*time.Second)))
		h.p.Seek(1500 * time.Millisecond)

		got := make(chan Snapshot)
		go func() { got <- h.p.Snapshot() }()
		snap := <-got

		assert.Equal(t, 1500*time.Millisecond, snap.Position)
		assert.True(t, snap.HasClip)
		assert.True(t, snap.InClip())
		assert.Equal(t, "a", snap.ClipName)
		assert.Equal(t, 3*time.Second, snap.ClipEnd)
	})
}

func TestPlayer_CloseEndsSubscriptions(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(250 * time.Millisecond)

		require.NoError(t, h.p.SetVideo(h.clip("a", 0, time.Second)))
		sub := h.p.Subscribe()
		h.p.Play()
		h.close()

		assert.False(t, h.p.IsPlaying())
		select {
		case <-sub.Done:
		default:
			t.Fatal("subscription not closed")
		}

		late := h.p.Subscribe()
		select {
		case <-late.Done:
		default:
			t.Fatal("subscribing after Close must return a closed subscription")
		}
	})
}
