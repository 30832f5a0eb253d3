package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/clip"
	"github.com/llehouerou/reel/internal/clipset"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/state"
)

// ApplyPlacements moves clips to their stored starts. Call it before the
// clips join a set.
func ApplyPlacements(store state.Interface, clips []*clip.Clip) error {
	if store == nil {
		return nil
	}
	placements, err := store.Placements()
	if err != nil {
		return err
	}
	for _, c := range clips {
		if start, ok := placements[c.Source()]; ok {
			c.SetStart(start)
		}
	}
	return nil
}

// RestoreCursor reselects the clip that was active on the last run and
// moves the cursor back to where it was. The player clamps a position past
// the play limit.
func RestoreCursor(store state.Interface, set *clipset.Set) error {
	if store == nil {
		return nil
	}
	cur, err := store.GetCursor()
	if err != nil || cur == nil {
		return err
	}
	if c, ok := set.Find(cur.ActiveSource); ok && cur.ActiveSource != "" {
		if err := set.Select(c); err != nil {
			return err
		}
	}
	set.Seek(cur.Position)
	return nil
}

// saveCursor queues the cursor for saving; the store debounces writes.
func (m *Model) saveCursor() {
	if m.store == nil {
		return
	}
	c := state.Cursor{Position: m.player.Position()}
	if cur := m.set.Current(); cur != nil {
		c.ActiveSource = cur.Source()
	}
	m.store.SaveCursor(c)
}

func (m *Model) savePlacement(c *clip.Clip) tea.Cmd {
	if m.store == nil {
		return nil
	}
	err := m.store.SavePlacements(context.Background(), []state.Placement{
		{Source: c.Source(), Start: c.Start()},
	})
	return m.setError(errmsg.Format(errmsg.OpStateSave, err))
}
