//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"strings"
)

var artExts = []string{".jpg", ".png", ".jpeg"}

// dirArtNames are tried after the per-source names, in priority order.
var dirArtNames = []string{"poster", "cover", "folder", "thumbnail"}

// FindArtwork looks for an image to show for source: first one named after
// the source itself (clip.mp4 -> clip.jpg), then a shared poster or cover
// in the same directory. Returns the path, or "" when there is none.
func FindArtwork(source string) string {
	if source == "" || strings.Contains(source, "://") {
		return ""
	}
	dir := filepath.Dir(source)
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))

	for _, name := range append([]string{base}, dirArtNames...) {
		for _, ext := range artExts {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}
