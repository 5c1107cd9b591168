package pitft

import (
	"image"
	"image/color"
	"math"
)

// Paint is the source that primitives draw with: either a [Solid] color or a
// [PatternIndex] into the pattern registry.
type Paint interface {
	isPaint()
}

// Solid is an opaque color. Channels range from 0 to 1; values outside of that
// range are clamped.
type Solid struct {
	R, G, B float64
}

func (Solid) isPaint() {}

// RGBA implements [color.Color].
func (c Solid) RGBA() (r, g, b, a uint32) {
	return channel(c.R), channel(c.G), channel(c.B), 0xffff
}

// PatternIndex selects a pattern from the registry. It is validated when
// drawing.
type PatternIndex int

func (PatternIndex) isPaint() {}

// SetColor paints with an opaque color.
func (s *Screen) SetColor(r, g, b float64) {
	s.paint = Solid{R: r, G: g, B: b}
}

// SelectPattern paints with the pattern at index.
func (s *Screen) SelectPattern(index int) {
	s.paint = PatternIndex(index)
}

// SetPaint sets the paint state. Nil paints opaque black.
func (s *Screen) SetPaint(paint Paint) {
	if paint == nil {
		paint = Solid{}
	}
	s.paint = paint
}

// Paint returns the paint state.
func (s *Screen) Paint() Paint {
	return s.paint
}

// source resolves the paint state to an image.
func (s *Screen) source() (image.Image, error) {
	switch p := s.paint.(type) {
	case PatternIndex:
		pattern, err := s.pattern(int(p))
		if err != nil {
			return nil, err
		}
		if !pattern.Valid() {
			return nil, &PatternError{Index: int(p), Err: ErrPatternInvalid}
		}
		return pattern.image(), nil
	case Solid:
		return image.NewUniform(p), nil
	default:
		return image.NewUniform(color.Black), nil
	}
}

// channel converts a float channel to 16 bits, clamping it to [0,1].
func channel(v float64) uint32 {
	switch {
	case !(v > 0):
		return 0
	case v >= 1:
		return 0xffff
	default:
		return uint32(math.Round(v * 0xffff))
	}
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
