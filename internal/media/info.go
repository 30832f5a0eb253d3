package media

import "time"

// Info describes a probed source. Probing is done by the backend that can
// decode the source; the timeline itself never reads files.
type Info struct {
	Path     string
	Title    string
	Format   string
	Duration time.Duration
	Size     int64
	Width    uint
	Height   uint
}
