package cliplist

// cursor tracks the selected row and the first visible row of a list whose
// length and viewport height are passed in on every call.
type cursor struct {
	pos    int
	offset int
	margin int // rows kept visible above/below the cursor
}

func (c *cursor) move(delta, n, height int) {
	if n == 0 {
		return
	}
	c.pos = clamp(c.pos+delta, n-1)
	c.ensureVisible(n, height)
}

func (c *cursor) jump(pos, n, height int) {
	if n == 0 {
		return
	}
	c.pos = clamp(pos, n-1)
	c.ensureVisible(n, height)
}

func (c *cursor) ensureVisible(n, height int) {
	if height <= 0 || n == 0 {
		return
	}
	margin := min(c.margin, (height-1)/2)
	if c.pos < c.offset+margin {
		c.offset = max(c.pos-margin, 0)
	}
	if c.pos >= c.offset+height-margin {
		c.offset = c.pos - height + margin + 1
	}
	c.offset = clamp(c.offset, max(n-height, 0))
}

// clampTo keeps the cursor inside a list of n rows.
func (c *cursor) clampTo(n int) {
	if n == 0 {
		c.pos, c.offset = 0, 0
		return
	}
	c.pos = clamp(c.pos, n-1)
	c.offset = clamp(c.offset, c.pos)
}

func (c cursor) visible(n, height int) (start, end int) {
	if n == 0 || height <= 0 {
		return 0, 0
	}
	return c.offset, min(c.offset+height, n)
}

// handleKey applies list navigation keys and reports whether key was one.
func (c *cursor) handleKey(key string, n, height int) bool {
	switch key {
	case "j", "down":
		c.move(1, n, height)
	case "k", "up":
		c.move(-1, n, height)
	case "g", "home":
		c.jump(0, n, height)
	case "G", "end":
		c.jump(n-1, n, height)
	case "ctrl+d", "pgdown":
		c.move(max(height/2, 1), n, height)
	case "ctrl+u", "pgup":
		c.move(-max(height/2, 1), n, height)
	default:
		return false
	}
	return true
}

func clamp(v, maxVal int) int {
	return min(max(v, 0), max(maxVal, 0))
}
