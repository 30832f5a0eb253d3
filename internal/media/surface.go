package media

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Surface is what gets presented for the current timeline position.
type Surface interface {
	Name() string
	Render(width, height int) string
}

// DefaultColor is the fallback surface colour when nothing is configured.
const DefaultColor = "#00BFFF"

// Solid is a plain colour block shown while no clip covers the cursor.
type Solid struct {
	color lipgloss.Color
}

// NewSolid parses hex (e.g. "#00BFFF") into a Solid surface.
func NewSolid(hex string) (*Solid, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("media: invalid colour %q: %w", hex, err)
	}
	return &Solid{color: lipgloss.Color(c.Hex())}, nil
}

// MustSolid is NewSolid for constant colours.
func MustSolid(hex string) *Solid {
	s, err := NewSolid(hex)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Solid) Name() string { return string(s.color) }

func (s *Solid) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Background(s.color).
		Width(width).
		Height(height).
		Render("")
}

// EngineSurface presents an engine's native playhead.
type EngineSurface struct {
	name   string
	engine Engine
	width  uint
	height uint
}

// NewEngineSurface binds a surface to engine. width and height are the
// source's native size, zero when unknown.
func NewEngineSurface(name string, engine Engine, width, height uint) *EngineSurface {
	return &EngineSurface{name: name, engine: engine, width: width, height: height}
}

func (s *EngineSurface) Name() string { return s.name }

// Engine returns the bound engine.
func (s *EngineSurface) Engine() Engine { return s.engine }

func (s *EngineSurface) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(s.name),
		formatPosition(s.engine.Position()),
	}
	if s.width > 0 && s.height > 0 {
		lines = append(lines, fmt.Sprintf("%dx%d", s.width, s.height))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}

func formatPosition(d time.Duration) string {
	d = d.Truncate(100 * time.Millisecond)
	m := int(d.Minutes())
	s := d.Seconds() - float64(m*60)
	return fmt.Sprintf("%d:%04.1f", m, s)
}
