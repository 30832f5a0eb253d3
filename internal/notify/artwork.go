//go:build linux

package notify

import "github.com/llehouerou/reel/internal/mpris"

// FindArtworkPath returns the image shown next to source, if any.
func FindArtworkPath(source string) string {
	return mpris.FindArtwork(source)
}
