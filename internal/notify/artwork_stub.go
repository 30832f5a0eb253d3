//go:build !linux

package notify

// FindArtworkPath returns empty on non-Linux platforms.
// Desktop notifications are only supported on Linux via D-Bus.
func FindArtworkPath(_ string) string {
	return ""
}
