//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"sync/atomic"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/reel/internal/clipset"
	"github.com/llehouerou/reel/internal/dispatch"
	"github.com/llehouerou/reel/internal/timeline"
)

const noTrack = "/org/mpris/MediaPlayer2/TrackList/NoTrack"

// Adapter exposes the timeline transport over MPRIS. D-Bus calls arrive on
// their own goroutines: reads use the player snapshot and commands are
// dispatched onto the owner goroutine.
type Adapter struct {
	server *server.Server
	player *playerAdapter
}

// New creates and starts a new MPRIS adapter. It must be called on the
// owner goroutine.
func New(d dispatch.Dispatcher, set *clipset.Set, log *logrus.Entry) (*Adapter, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	pa := newPlayerAdapter(d, set, log.WithField("component", "mpris"))
	a := &Adapter{
		server: server.NewServer("reel", &rootAdapter{}, pa),
		player: pa,
	}

	// Start the server in background
	go func() {
		if err := a.server.Listen(); err != nil {
			pa.log.WithError(err).Warn("mpris server stopped")
		}
	}()

	return a, nil
}

// Update refreshes what the adapter reports about clip navigation. Call it
// on the owner goroutine after the active clip or the clip set changes.
func (a *Adapter) Update() {
	a.player.update()
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // the TUI owns its lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Reel", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{
		"audio/mpeg", "audio/flac", "audio/wav",
		"video/mp4", "video/x-matroska", "video/webm",
	}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	d   dispatch.Dispatcher
	set *clipset.Set
	log *logrus.Entry

	// written on the owner by update
	canNext atomic.Bool
	canPrev atomic.Bool
	hasClip atomic.Bool
}

func newPlayerAdapter(d dispatch.Dispatcher, set *clipset.Set, log *logrus.Entry) *playerAdapter {
	p := &playerAdapter{d: d, set: set, log: log}
	p.update()
	return p
}

func (p *playerAdapter) update() {
	p.canNext.Store(p.set.HasAdjacent(1))
	p.canPrev.Store(p.set.HasAdjacent(-1))
	p.hasClip.Store(p.set.Current() != nil)
}

func (p *playerAdapter) snapshot() timeline.Snapshot {
	return p.set.Player().Snapshot()
}

// run dispatches fn onto the owner and logs its error there.
func (p *playerAdapter) run(op string, fn func() error) {
	p.d.Dispatch(func() {
		if err := fn(); err != nil {
			p.log.WithError(err).WithField("op", op).Warn("mpris command failed")
		}
		p.update()
	})
}

func (p *playerAdapter) Next() error {
	p.run("next", func() error { return p.set.SelectAdjacent(1) })
	return nil
}

func (p *playerAdapter) Previous() error {
	p.run("previous", func() error { return p.set.SelectAdjacent(-1) })
	return nil
}

func (p *playerAdapter) Pause() error {
	p.run("pause", func() error {
		p.set.Player().Pause()
		return nil
	})
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.run("play-pause", func() error {
		p.set.TogglePlay()
		return nil
	})
	return nil
}

// Stop pauses and rewinds the cursor to the beginning of the timeline.
func (p *playerAdapter) Stop() error {
	p.run("stop", func() error {
		p.set.Player().Pause()
		p.set.Seek(0)
		return nil
	})
	return nil
}

func (p *playerAdapter) Play() error {
	p.run("play", func() error {
		if p.set.Current() != nil {
			p.set.Player().Play()
		}
		return nil
	})
	return nil
}

// Seek moves the cursor relative to where it is.
func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.run("seek", func() error {
		p.set.SeekBy(time.Duration(offset) * time.Microsecond)
		return nil
	})
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.run("set-position", func() error {
		p.set.Seek(max(time.Duration(position)*time.Microsecond, 0))
		return nil
	})
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.snapshot()), nil
}

func playbackStatus(s timeline.Snapshot) types.PlaybackStatus {
	switch {
	case s.Playing:
		return types.PlaybackStatusPlaying
	case s.HasClip:
		return types.PlaybackStatusPaused
	default:
		return types.PlaybackStatusStopped
	}
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.snapshot()), nil
}

func metadata(s timeline.Snapshot) types.Metadata {
	if !s.HasClip {
		return types.Metadata{TrackId: dbus.ObjectPath(noTrack)}
	}
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(s.ClipSource)),
		Length:  types.Microseconds((s.ClipEnd - s.ClipStart).Microseconds()),
		Title:   s.ClipName,
	}
	if art := FindArtwork(s.ClipSource); art != "" {
		meta.ArtUrl = "file://" + art
	}
	return meta
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

// Position is the timeline cursor, not the clip's native playhead.
func (p *playerAdapter) Position() (int64, error) {
	return p.snapshot().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.canNext.Load(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.canPrev.Load(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.hasClip.Load(), nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.hasClip.Load(), nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(source string) string {
	h := fnv.New64a()
	h.Write([]byte(source))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
