// Package player implements a media.Engine on top of beep for audio sources.
package player

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

// ErrUnsupportedFormat is returned for sources beep cannot decode here.
var ErrUnsupportedFormat = fmt.Errorf("player: unsupported format")

// IsSupported reports whether path has an extension this package decodes.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extWAV, extOGG:
		return true
	}
	return false
}

// formatName is the display name of the container for path.
func formatName(path string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// decodeFile opens path and returns a seekable stream over it. The returned
// streamer owns the file: closing it closes the file.
func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupported(path) {
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case extMP3:
		streamer, format, err = decodeMP3(f)
	case extFLAC:
		if err = skipID3v2(f); err == nil {
			streamer, format, err = flac.Decode(f)
		}
	case extWAV:
		streamer, format, err = wav.Decode(f)
	case extOGG:
		streamer, format, err = vorbis.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return streamer, format, nil
}

// skipID3v2 positions r past a leading ID3v2 tag, which some taggers prepend
// to FLAC files and the FLAC decoder rejects.
func skipID3v2(r io.ReadSeeker) error {
	var header [10]byte
	n, err := io.ReadFull(r, header[:])
	if err != nil && n < len(header) {
		if _, serr := r.Seek(0, io.SeekStart); serr != nil {
			return serr
		}
		return nil
	}
	if string(header[:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}
	// Syncsafe integer: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(int64(len(header))+size, io.SeekStart)
	return err
}
