package player

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/llehouerou/reel/internal/media"
)

// Probe reads the duration, size and title of an audio file.
// The title falls back to the file name when the file carries no tags.
func Probe(path string) (*media.Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	duration := format.SampleRate.D(streamer.Len())
	streamer.Close()

	return &media.Info{
		Path:     path,
		Title:    readTitle(path),
		Format:   formatName(path),
		Duration: duration,
		Size:     st.Size(),
	}, nil
}

func readTitle(path string) string {
	fallback := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	f, err := os.Open(path)
	if err != nil {
		return fallback
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil || m.Title() == "" {
		return fallback
	}
	return m.Title()
}
