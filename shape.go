package pitft

import (
	"image/color"
	"math"

	"github.com/BeatGlow/pitft/draw"
)

// Style selects between filling a shape and stroking its outline. The zero
// Style fills.
type Style struct {
	// Stroke draws the outline instead of filling.
	Stroke bool

	// LineWidth of the outline; zero or less means 1.
	LineWidth float64
}

// Filled fills a shape.
var Filled = Style{}

// Outline strokes the outline of a shape with the given line width.
func Outline(width float64) Style {
	return Style{Stroke: true, LineWidth: width}
}

func (style Style) apply(c *draw.Context) {
	if !style.Stroke {
		c.Fill()
		return
	}
	c.SetLineWidth(lineWidth(style.LineWidth))
	c.Stroke()
}

func lineWidth(width float64) float64 {
	if !(width > 0) {
		return 1
	}
	return width
}

// prepare returns a paint context with the paint state as its source.
func (s *Screen) prepare() (*draw.Context, error) {
	c, err := s.context()
	if err != nil {
		return nil, err
	}
	src, err := s.source()
	if err != nil {
		c.Close()
		return nil, err
	}
	c.SetSource(src)
	return c, nil
}

// Clear paints the active surface black, regardless of the paint state.
func (s *Screen) Clear() error {
	c, err := s.context()
	if err != nil {
		return err
	}
	defer c.Close()

	c.SetSourceColor(color.Black)
	c.Paint()
	return nil
}

// Fill paints the whole active surface.
func (s *Screen) Fill() error {
	c, err := s.prepare()
	if err != nil {
		return err
	}
	defer c.Close()

	c.Paint()
	return nil
}

// Line strokes a line from (x0,y0) to (x1,y1) with butt caps.
func (s *Screen) Line(x0, y0, x1, y1, width float64) error {
	c, err := s.prepare()
	if err != nil {
		return err
	}
	defer c.Close()

	c.MoveTo(x0, y0)
	c.LineTo(x1, y1)
	c.SetLineWidth(lineWidth(width))
	c.Stroke()
	return nil
}

// Rect draws the rectangle with its top left corner at (x,y).
func (s *Screen) Rect(x, y, width, height float64, style Style) error {
	c, err := s.prepare()
	if err != nil {
		return err
	}
	defer c.Close()

	c.Rectangle(x, y, width, height)
	style.apply(c)
	return nil
}

// Circle draws the circle centered on (x,y).
func (s *Screen) Circle(x, y, radius float64, style Style) error {
	c, err := s.prepare()
	if err != nil {
		return err
	}
	defer c.Close()

	c.Arc(x, y, radius, 0, 2*math.Pi)
	if style.Stroke {
		c.ClosePath()
	}
	style.apply(c)
	return nil
}
