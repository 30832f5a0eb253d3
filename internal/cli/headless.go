package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/llehouerou/reel/internal/clipset"
	"github.com/llehouerou/reel/internal/dispatch"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/notify"
	"github.com/llehouerou/reel/internal/timeline"
	"github.com/llehouerou/reel/internal/ui/render"
)

// ErrNothingToPlay is returned by a headless run without a clip to play.
var ErrNothingToPlay = errors.New("nothing to play")

func (s *session) runHeadless(ctx context.Context, out io.Writer) error {
	loop := dispatch.NewLoop()
	defer loop.Close()

	var (
		p   *timeline.Player
		set *clipset.Set
		err error
	)
	loop.Do(func() { p, set, err = s.newPlayer(loop) })
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer loop.Do(func() {
		_ = set.Close()
		p.Close()
	})

	var n notify.Notifier
	if s.cfg.Notifications {
		if n, err = notify.New(); err != nil {
			s.log.WithError(err).Warn("desktop notifications unavailable")
			n = nil
		}
	}
	return playHeadless(ctx, loop, set, out, notify.NewAnnouncer(n, s.log))
}

// playHeadless plays from the cursor until the player stops at the play
// limit or ctx is done. Without an active clip the first one is selected.
// Entering the clip and engine failures are also announced through ann.
func playHeadless(ctx context.Context, loop *dispatch.Loop, set *clipset.Set, out io.Writer, ann *notify.Announcer) error {
	var (
		sub     *timeline.Subscription
		started bool
		name    string
	)
	loop.Do(func() {
		p := set.Player()
		sub = p.Subscribe()
		if set.Current() == nil {
			_ = set.SelectAdjacent(1)
		}
		if p.Position() >= p.PlayLimit() {
			set.Seek(0)
		}
		set.TogglePlay()
		started = p.IsPlaying()
		if c := set.Current(); c != nil {
			name = c.Name()
		}
	})
	if !started {
		return ErrNothingToPlay
	}
	fmt.Fprintf(out, "%s playing %s\n", render.Timecode(set.Player().Snapshot().Position), name)

	for {
		select {
		case <-ctx.Done():
			loop.Do(func() { set.Player().Pause() })
			fmt.Fprintf(out, "%s interrupted\n", render.Timecode(set.Player().Snapshot().Position))
			return nil

		case e := <-sub.StateChanged:
			if e.Current != timeline.StatePaused {
				continue
			}
			// seeks pause and resume within one owner call; ask the owner
			// once it is done
			stopped := false
			loop.Do(func() { stopped = !set.Player().IsPlaying() })
			if stopped {
				fmt.Fprintf(out, "%s stopped\n", render.Timecode(set.Player().Snapshot().Position))
				return nil
			}

		case e := <-sub.SurfaceChanged:
			snap := set.Player().Snapshot()
			fmt.Fprintf(out, "%s showing %s\n", render.Timecode(snap.Position), e.Surface.Name())
			if snap.InClip() {
				ann.Showing(snap.ClipName, snap.ClipSource, snap.Position)
			}

		case e := <-sub.Error:
			text := errmsg.FormatWith(errmsg.EngineOp(e.Operation), e.Source, e.Err)
			fmt.Fprintln(out, text)
			ann.Failed(text)

		case <-sub.Done:
			return nil

		case <-sub.PositionChanged:
		case <-sub.ClipChanged:
		case <-sub.PlayLimitChanged:
		}
	}
}
