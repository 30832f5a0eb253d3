package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/reel/internal/clip"
	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/media"
	"github.com/llehouerou/reel/internal/mpv"
	"github.com/llehouerou/reel/internal/player"
	"github.com/llehouerou/reel/internal/ui/timeinput"
)

// ErrNoClips is returned when none of the arguments could be loaded.
var ErrNoClips = errors.New("no playable clips")

// prober reads a source's duration and size.
type prober func(source string) (*media.Info, error)

// backend is the engine a run plays through.
type backend struct {
	opener media.Opener
	probe  prober
}

func newBackend(cfg *config.Config, log *logrus.Entry) backend {
	if cfg.Engine == config.EngineMPV {
		o := &mpv.Opener{
			Binary:    cfg.MPV.Binary,
			SocketDir: cfg.MPV.SocketDir,
			Log:       log,
		}
		return backend{opener: o, probe: o.Probe}
	}
	return backend{opener: player.Opener{}, probe: player.Probe}
}

// clipArg is one command-line source, optionally placed with a trailing
// "@start", e.g. "intro.mp4@1:30".
type clipArg struct {
	source string
	start  time.Duration
	placed bool
}

func parseClipArg(arg string) clipArg {
	i := strings.LastIndex(arg, "@")
	if i <= 0 {
		return clipArg{source: arg}
	}
	start, err := timeinput.Parse(arg[i+1:])
	if err != nil || start < 0 {
		// an @ that belongs to the file name
		return clipArg{source: arg}
	}
	return clipArg{source: arg[:i], start: start, placed: true}
}

// buildClips probes every argument and creates its clip. Sources that fail
// to probe are logged and skipped. The returned map holds file sizes by
// source.
func buildClips(args []string, b backend, log *logrus.Entry) ([]*clip.Clip, map[string]int64, error) {
	parsed := lo.UniqBy(lo.Map(args, func(a string, _ int) clipArg {
		c := parseClipArg(a)
		c.source = absSource(c.source)
		return c
	}), func(c clipArg) string { return c.source })

	var clips []*clip.Clip
	sizes := make(map[string]int64, len(parsed))
	var errs []error
	for _, a := range parsed {
		info, err := b.probe(a.source)
		if err != nil {
			log.WithError(err).WithField("source", a.source).Warn("skipping source")
			errs = append(errs, fmt.Errorf("%s: %w", a.source, err))
			continue
		}

		opts := []clip.Option{clip.WithSize(info.Width, info.Height)}
		if a.placed {
			opts = append(opts, clip.WithStart(a.start))
		}
		clips = append(clips, clip.New(clipName(info, a.source), a.source, info.Duration, b.opener, opts...))
		sizes[a.source] = sourceSize(info, a.source)
	}

	if len(clips) == 0 {
		return nil, nil, errors.Join(append([]error{ErrNoClips}, errs...)...)
	}
	return clips, sizes, nil
}

func absSource(source string) string {
	if strings.Contains(source, "://") {
		return source
	}
	if abs, err := filepath.Abs(source); err == nil {
		return abs
	}
	return source
}

func clipName(info *media.Info, source string) string {
	if info.Title != "" {
		return info.Title
	}
	return strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
}

func sourceSize(info *media.Info, source string) int64 {
	if info.Size > 0 {
		return info.Size
	}
	if st, err := os.Stat(source); err == nil {
		return st.Size()
	}
	return 0
}
