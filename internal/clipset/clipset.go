// Package clipset holds the clips laid out on a timeline and keeps the
// player's play limit and active clip consistent with them.
package clipset

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/reel/internal/clip"
	"github.com/llehouerou/reel/internal/timeline"
)

var (
	ErrUnknownClip = errors.New("clipset: clip not in set")
	ErrOutOfRange  = errors.New("clipset: start out of range")
)

// Set is an ordered clip collection bound to a player. Like the player, it
// is confined to the owner goroutine.
type Set struct {
	player *timeline.Player
	log    *logrus.Entry

	clips     []*clip.Clip
	unobserve []func()
}

// New creates an empty set. The player's play limit becomes unbounded.
func New(p *timeline.Player, log *logrus.Entry) *Set {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Set{player: p, log: log.WithField("component", "clipset")}
	s.updateLimit()
	return s
}

// Player returns the bound player.
func (s *Set) Player() *timeline.Player { return s.player }

// Clips returns the clips in display order.
func (s *Set) Clips() []*clip.Clip {
	return append([]*clip.Clip(nil), s.clips...)
}

func (s *Set) Len() int { return len(s.clips) }

// At returns the i-th clip, or nil when out of range.
func (s *Set) At(i int) *clip.Clip {
	if i < 0 || i >= len(s.clips) {
		return nil
	}
	return s.clips[i]
}

// Index returns the position of c, or -1.
func (s *Set) Index(c *clip.Clip) int {
	return lo.IndexOf(s.clips, c)
}

// Find returns the clip with the given source.
func (s *Set) Find(source string) (*clip.Clip, bool) {
	return lo.Find(s.clips, func(c *clip.Clip) bool { return c.Source() == source })
}

// Current returns the player's active clip.
func (s *Set) Current() *clip.Clip { return s.player.Clip() }

// Replace pauses the player and swaps the collection. Clips dropped by the
// replacement are closed; the active clip is cleared if it was dropped.
func (s *Set) Replace(clips []*clip.Clip) error {
	s.player.Pause()
	s.detach()

	next := lo.Uniq(lo.Compact(clips))
	dropped := lo.Without(s.clips, next...)
	if cur := s.player.Clip(); cur != nil && !lo.Contains(next, cur) {
		if err := s.player.SetVideo(nil); err != nil {
			return fmt.Errorf("clipset: clear active clip: %w", err)
		}
	}

	s.clips = next
	for _, c := range s.clips {
		s.unobserve = append(s.unobserve, c.Observe(s.onClipChanged))
	}
	s.updateLimit()
	s.log.WithField("clips", len(s.clips)).Info("clip set replaced")

	return closeAll(dropped)
}

// Select makes c the active clip. While playing, playback is paused around
// the switch and resumed on c.
func (s *Set) Select(c *clip.Clip) error {
	if c == nil {
		return nil
	}
	if !lo.Contains(s.clips, c) {
		return fmt.Errorf("%w: %s", ErrUnknownClip, c.Name())
	}
	if !s.player.IsPlaying() {
		return s.player.SetVideo(c)
	}
	s.player.Pause()
	if err := s.player.SetVideo(c); err != nil {
		return err
	}
	s.player.Play()
	return nil
}

// SelectAdjacent selects the clip delta places away from the active one in
// display order. Without an active clip, positive deltas start from the
// first clip. Moving past either end does nothing.
func (s *Set) SelectAdjacent(delta int) error {
	if len(s.clips) == 0 || delta == 0 {
		return nil
	}
	i := s.Index(s.player.Clip())
	switch {
	case i < 0 && delta > 0:
		i = delta - 1
	case i < 0:
		return nil
	default:
		i += delta
	}
	c := s.At(i)
	if c == nil {
		return nil
	}
	return s.Select(c)
}

// HasAdjacent reports whether SelectAdjacent(delta) would change the clip.
func (s *Set) HasAdjacent(delta int) bool {
	i := s.Index(s.player.Clip())
	if i < 0 {
		return delta > 0 && delta <= len(s.clips)
	}
	return s.At(i+delta) != nil && delta != 0
}

// TogglePlay plays or pauses; without an active clip it does nothing.
func (s *Set) TogglePlay() {
	if s.player.Clip() == nil {
		return
	}
	s.player.Toggle()
}

// Seek moves the cursor unless it is already at t.
func (s *Set) Seek(t time.Duration) {
	if t == s.player.Position() {
		return
	}
	s.player.Seek(t)
}

// SeekBy moves the cursor by delta, never before zero.
func (s *Set) SeekBy(delta time.Duration) {
	s.Seek(max(s.player.Position()+delta, 0))
}

// MaxStart is the latest start c may be moved to without passing the play
// limit.
func (s *Set) MaxStart(c *clip.Clip) time.Duration {
	return s.player.PlayLimit() - c.Duration()
}

// SetStart moves c after checking 0 <= start <= MaxStart(c).
func (s *Set) SetStart(c *clip.Clip, start time.Duration) error {
	if !lo.Contains(s.clips, c) {
		return fmt.Errorf("%w: %s", ErrUnknownClip, c.Name())
	}
	if start < 0 || start > s.MaxStart(c) {
		return fmt.Errorf("%w: %s not in [0, %s]", ErrOutOfRange, start, s.MaxStart(c))
	}
	c.SetStart(start)
	return nil
}

// Nudge moves c by delta, clamped into the valid range.
func (s *Set) Nudge(c *clip.Clip, delta time.Duration) error {
	if !lo.Contains(s.clips, c) {
		return fmt.Errorf("%w: %s", ErrUnknownClip, c.Name())
	}
	start := min(max(c.Start()+delta, 0), s.MaxStart(c))
	if start == c.Start() {
		return nil
	}
	c.SetStart(start)
	return nil
}

// Close detaches from the clips and closes them.
func (s *Set) Close() error {
	s.player.Pause()
	s.detach()
	if s.player.Clip() != nil {
		_ = s.player.SetVideo(nil)
	}
	err := closeAll(s.clips)
	s.clips = nil
	return err
}

func (s *Set) onClipChanged(_ *clip.Clip, f clip.Field) {
	if f == clip.FieldEnd {
		s.updateLimit()
	}
}

func (s *Set) updateLimit() {
	limit := timeline.Unbounded
	if len(s.clips) > 0 {
		limit = lo.Max(lo.Map(s.clips, func(c *clip.Clip, _ int) time.Duration { return c.End() }))
	}
	if limit != s.player.PlayLimit() {
		s.player.SetPlayLimit(limit)
	}
}

func (s *Set) detach() {
	for _, fn := range s.unobserve {
		fn()
	}
	s.unobserve = nil
}

func closeAll(clips []*clip.Clip) error {
	var errs []error
	for _, c := range clips {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.Name(), err))
		}
	}
	return errors.Join(errs...)
}
