package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/reel/internal/app"
	"github.com/llehouerou/reel/internal/clip"
	"github.com/llehouerou/reel/internal/clipset"
	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/dispatch"
	"github.com/llehouerou/reel/internal/errmsg"
	rlog "github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/media"
	"github.com/llehouerou/reel/internal/mpris"
	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/timeline"
	"github.com/llehouerou/reel/internal/timerpool"
)

// session is everything a run sets up before handing the player to a
// front end, in teardown order.
type session struct {
	cfg   *config.Config
	log   *logrus.Entry
	store state.Interface // nil with --no-state
	clips []*clip.Clip
	sizes map[string]int64

	closeLog func() error
}

func openSession(opts *Options, args []string) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	if opts.Engine != "" {
		cfg.Engine = opts.Engine
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	closeLog, err := rlog.Setup(rlog.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Write:  cfg.LogWrite(),
	})
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	s := &session{cfg: cfg, log: rlog.Component("cli"), closeLog: closeLog}
	s.log.WithFields(logrus.Fields{"engine": cfg.Engine, "sources": len(args)}).Info("starting")

	s.clips, s.sizes, err = buildClips(args, newBackend(cfg, rlog.Component("media")), s.log)
	if err != nil {
		_ = s.closeLog()
		return nil, errors.New(errmsg.Format(errmsg.OpClipLoad, err))
	}

	if !opts.NoState {
		store, err := state.Open()
		if err != nil {
			s.log.WithError(err).Warn("state unavailable, continuing without it")
		} else {
			s.store = store
		}
	}
	if err := app.ApplyPlacements(s.store, s.clips); err != nil {
		s.log.WithError(err).Warn(errmsg.Format(errmsg.OpStateLoad, err))
	}
	return s, nil
}

func (s *session) newPlayer(d dispatch.Dispatcher) (*timeline.Player, *clipset.Set, error) {
	surface, err := media.NewSolid(s.cfg.DefaultColor)
	if err != nil {
		return nil, nil, err
	}
	p := timeline.New(timeline.Options{
		Dispatcher:     d,
		PollInterval:   s.cfg.PollInterval,
		DefaultSurface: surface,
		Logger:         rlog.Component("timeline"),
	})
	set := clipset.New(p, rlog.Component("clipset"))
	if err := set.Replace(s.clips); err != nil {
		p.Close()
		return nil, nil, err
	}
	if err := app.RestoreCursor(s.store, set); err != nil {
		s.log.WithError(err).Warn(errmsg.Format(errmsg.OpStateLoad, err))
	}
	return p, set, nil
}

func (s *session) close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.WithError(err).Warn(errmsg.Format(errmsg.OpStateSave, err))
		}
	}
	s.log.Info("stopped")
	_ = s.closeLog()
}

// Run loads the clips and plays them, in the terminal UI or headless.
func Run(ctx context.Context, opts *Options, args []string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(opts, args)
	if err != nil {
		return err
	}
	defer s.close()

	timerpool.Init(s.cfg.SweepInterval)
	defer timerpool.Shutdown()

	if opts.Headless {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return s.runHeadless(ctx, out)
	}
	return s.runTUI()
}

func (s *session) runTUI() error {
	q := dispatch.NewQueue()
	p, set, err := s.newPlayer(q)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer func() {
		_ = set.Close()
		p.Close()
		q.Drain()
	}()

	remote, err := mpris.New(q, set, rlog.Component("mpris"))
	if err != nil {
		s.log.WithError(err).Warn("mpris unavailable")
	} else {
		defer remote.Close()
	}

	opts := app.Options{
		Owner: q,
		Set:   set,
		State: s.store,
		Sizes: s.sizes,
		Log:   rlog.Component("app"),
	}
	if remote != nil {
		opts.Remote = remote
	}

	prog := tea.NewProgram(app.New(opts), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
