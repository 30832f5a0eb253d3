package mpv

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/llehouerou/reel/internal/media"
)

const (
	probeRetries = 30
	probeDelay   = 100 * time.Millisecond
)

// Probe starts mpv on source just long enough to read its duration and
// video size.
func (o *Opener) Probe(source string) (*media.Info, error) {
	eng, err := o.Open(source)
	if err != nil {
		return nil, err
	}
	e := eng.(*Engine)
	defer e.Close()
	return e.Info(source)
}

// Info reads the loaded file's properties. mpv reports duration only once
// the file has been demuxed, so it is polled for a while.
func (e *Engine) Info(source string) (*media.Info, error) {
	var secs float64
	var err error
	for range probeRetries {
		secs, err = e.ipc.getFloat("duration")
		if err == nil || !errors.Is(err, ErrProperty) {
			break
		}
		time.Sleep(probeDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("mpv: duration of %s: %w", source, err)
	}

	info := &media.Info{
		Path:     source,
		Title:    strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)),
		Format:   strings.ToUpper(strings.TrimPrefix(filepath.Ext(source), ".")),
		Duration: fromSeconds(secs),
	}
	// audio-only sources have no video size
	if w, err := e.ipc.getFloat("width"); err == nil && w > 0 {
		info.Width = uint(w)
	}
	if h, err := e.ipc.getFloat("height"); err == nil && h > 0 {
		info.Height = uint(h)
	}
	if title, err := e.ipc.command("get_property", "media-title"); err == nil {
		if s, ok := title.(string); ok && s != "" {
			info.Title = s
		}
	}
	return info, nil
}
