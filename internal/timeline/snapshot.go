package timeline

import "time"

// Snapshot is a copy of the transport state for readers outside the owner
// goroutine.
type Snapshot struct {
	Position  time.Duration
	Playing   bool
	PlayLimit time.Duration

	HasClip    bool
	ClipName   string
	ClipSource string
	ClipStart  time.Duration
	ClipEnd    time.Duration
}

// InClip reports whether the cursor is inside the active clip.
func (s Snapshot) InClip() bool {
	return s.HasClip && s.ClipStart <= s.Position && s.Position < s.ClipEnd
}

func (p *Player) publish() {
	s := &Snapshot{
		Position:  p.position,
		Playing:   p.playing,
		PlayLimit: p.playLimit,
	}
	if c := p.clip; c != nil {
		s.HasClip = true
		s.ClipName = c.Name()
		s.ClipSource = c.Source()
		s.ClipStart = c.Start()
		s.ClipEnd = c.End()
	}
	p.snap.Store(s)
}
