// Package app is the reel terminal UI: a clip table, the timeline bar and
// the render output panel around one timeline player.
//
// The bubbletea Update goroutine is the player's owner. Timer and poller
// callbacks reach it through a dispatch.Queue that Update drains whenever
// WaitForOwner reports pending work.
package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/reel/internal/clipset"
	"github.com/llehouerou/reel/internal/dispatch"
	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/timeline"
	"github.com/llehouerou/reel/internal/ui/cliplist"
	"github.com/llehouerou/reel/internal/ui/timeinput"
)

// Remote is an outside controller, such as MPRIS, that caches what the
// timeline offers. Update is called on the owner after the active clip or
// the clip set changes.
type Remote interface {
	Update()
}

// Options wires the model to the player it drives.
type Options struct {
	// Owner is the Dispatcher the player was built with. Required.
	Owner *dispatch.Queue
	// Set holds the clips bound to the player. Required.
	Set *clipset.Set
	// State persists placements and the cursor; nil disables it.
	State state.Interface
	// Remote is notified of selection changes; may be nil.
	Remote Remote
	// Sizes are file sizes by clip source, for the clip table.
	Sizes map[string]int64
	Log   *logrus.Entry
}

// Model is the root application model.
type Model struct {
	owner  *dispatch.Queue
	set    *clipset.Set
	player *timeline.Player
	sub    *timeline.Subscription
	store  state.Interface
	remote Remote
	sizes  map[string]int64
	log    *logrus.Entry

	Clips     cliplist.Model
	TimeInput timeinput.Model
	InputOpen bool

	ErrorMsg     string
	errorVersion int
	Width        int
	Height       int
}

// New creates the model and subscribes to the player. It must be called on
// the owner, before the program starts.
func New(opts Options) Model {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	p := opts.Set.Player()

	clips := cliplist.New()
	clips.SetFocused(true)

	m := Model{
		owner:     opts.Owner,
		set:       opts.Set,
		player:    p,
		sub:       p.Subscribe(),
		store:     opts.State,
		remote:    opts.Remote,
		sizes:     opts.Sizes,
		log:       log.WithField("component", "app"),
		Clips:     clips,
		TimeInput: timeinput.New(),
	}
	m.syncRows()
	if cur := opts.Set.Current(); cur != nil {
		m.Clips.Select(opts.Set.Index(cur))
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(WaitForOwner(m.owner), WatchPlayerEvents(m.sub))
}

// syncRows rebuilds the clip table from the set and the cursor.
func (m *Model) syncRows() {
	pos := m.player.Position()
	cur := m.set.Current()
	clips := m.set.Clips()
	rows := make([]cliplist.Row, len(clips))
	for i, c := range clips {
		rows[i] = cliplist.Row{
			Name:     c.Name(),
			Start:    c.Start(),
			End:      c.End(),
			Duration: c.Duration(),
			Size:     m.sizes[c.Source()],
			Active:   c == cur,
			Covering: c.Contains(pos),
		}
	}
	m.Clips.SetRows(rows)
}

// setError shows msg on the status line until ClearErrorCmd fires.
func (m *Model) setError(msg string) tea.Cmd {
	if msg == "" {
		return nil
	}
	m.log.Warn(msg)
	m.ErrorMsg = msg
	m.errorVersion++
	return ClearErrorCmd(m.errorVersion)
}

func (m *Model) notifyRemote() {
	if m.remote != nil {
		m.remote.Update()
	}
}
