package pitft

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/BeatGlow/pitft/internal/logger"
)

// MaxPatterns limits the pattern registry size.
const MaxPatterns = 1 << 16

// PatternKind is the type of a pattern.
type PatternKind uint8

// Pattern kinds.
const (
	LinearGradient PatternKind = iota
	SolidPattern
)

func (k PatternKind) String() string {
	switch k {
	case LinearGradient:
		return "linear"
	case SolidPattern:
		return "solid"
	default:
		return "unknown"
	}
}

// ColorStop is a gradient color at an offset along the gradient vector.
type ColorStop struct {
	Offset     float64
	R, G, B, A float64
}

// Pattern is a reusable paint source.
type Pattern struct {
	kind           PatternKind
	x0, y0, x1, y1 float64
	color          color.NRGBA64
	stops          []ColorStop
	valid          bool
	gradient       gg.Gradient
}

func newLinearPattern(x0, y0, x1, y1 float64) *Pattern {
	return &Pattern{
		kind:     LinearGradient,
		x0:       x0,
		y0:       y0,
		x1:       x1,
		y1:       y1,
		valid:    finite(x0, y0, x1, y1),
		gradient: gg.NewLinearGradient(x0, y0, x1, y1),
	}
}

func newSolidPattern(r, g, b, a float64) *Pattern {
	return &Pattern{
		kind:  SolidPattern,
		color: nrgba(r, g, b, a),
		valid: finite(r, g, b, a),
	}
}

// Kind returns the pattern kind.
func (p *Pattern) Kind() PatternKind {
	return p.kind
}

// Valid reports whether the pattern can be painted with.
func (p *Pattern) Valid() bool {
	return p.valid
}

// Stops returns the color stops of a gradient in the order they were added.
func (p *Pattern) Stops() []ColorStop {
	return append([]ColorStop(nil), p.stops...)
}

func (p *Pattern) addColorStop(stop ColorStop) {
	p.stops = append(p.stops, stop)
	p.gradient.AddColorStop(stop.Offset, nrgba(stop.R, stop.G, stop.B, stop.A))
}

// image returns the pattern as an unbounded image in device space.
func (p *Pattern) image() image.Image {
	if p.kind == SolidPattern {
		return image.NewUniform(p.color)
	}
	return patternImage{p.gradient}
}

// patternImage adapts a gg pattern to an infinite image.
type patternImage struct {
	gg.Pattern
}

func (patternImage) ColorModel() color.Model {
	return color.RGBAModel
}

func (patternImage) Bounds() image.Rectangle {
	return image.Rectangle{Min: image.Point{X: -1e9, Y: -1e9}, Max: image.Point{X: 1e9, Y: 1e9}}
}

func (i patternImage) At(x, y int) color.Color {
	return i.ColorAt(x, y)
}

func nrgba(r, g, b, a float64) color.NRGBA64 {
	return color.NRGBA64{
		R: uint16(channel(r)),
		G: uint16(channel(g)),
		B: uint16(channel(b)),
		A: uint16(channel(a)),
	}
}

// pattern returns the live pattern at index.
func (s *Screen) pattern(index int) (*Pattern, error) {
	if index < 0 || index >= len(s.patterns) {
		return nil, &PatternError{Index: index, Err: ErrPatternIndex}
	}
	if s.patterns[index] == nil {
		return nil, &PatternError{Index: index, Err: ErrPatternDestroyed}
	}
	return s.patterns[index], nil
}

// Pattern returns the pattern at index.
func (s *Screen) Pattern(index int) (*Pattern, error) {
	return s.pattern(index)
}

// Patterns returns the size of the pattern registry, including destroyed slots.
func (s *Screen) Patterns() int {
	return len(s.patterns)
}

func (s *Screen) appendPattern(p *Pattern) int {
	s.patterns = append(s.patterns, p)
	index := len(s.patterns) - 1
	logger.Get().Debug("pattern created", "index", index, "kind", p.kind, "valid", p.valid)
	return index
}

func (s *Screen) setPattern(index int, p *Pattern) (int, error) {
	if index < 0 || index >= MaxPatterns {
		return index, &PatternError{Index: index, Err: ErrPatternIndex}
	}
	for len(s.patterns) <= index {
		s.patterns = append(s.patterns, nil)
	}
	s.patterns[index] = p
	logger.Get().Debug("pattern replaced", "index", index, "kind", p.kind, "valid", p.valid)
	return index, nil
}

// CreateLinearPattern adds a linear gradient from (x0,y0) to (x1,y1) and returns
// its index. Color stops are added with [Screen.AddColorStop].
func (s *Screen) CreateLinearPattern(x0, y0, x1, y1 float64) int {
	return s.appendPattern(newLinearPattern(x0, y0, x1, y1))
}

// SetLinearPattern installs a linear gradient at index, replacing any pattern
// already there and growing the registry with empty slots as needed.
func (s *Screen) SetLinearPattern(index int, x0, y0, x1, y1 float64) (int, error) {
	return s.setPattern(index, newLinearPattern(x0, y0, x1, y1))
}

// CreateSolidPattern adds a translucent color and returns its index.
func (s *Screen) CreateSolidPattern(r, g, b, a float64) int {
	return s.appendPattern(newSolidPattern(r, g, b, a))
}

// SetSolidPattern installs a translucent color at index; see [Screen.SetLinearPattern].
func (s *Screen) SetSolidPattern(index int, r, g, b, a float64) (int, error) {
	return s.setPattern(index, newSolidPattern(r, g, b, a))
}

// AddColorStop adds a color stop to the gradient at index. The offset is
// clamped to [0,1].
func (s *Screen) AddColorStop(index int, offset, r, g, b, a float64) error {
	p, err := s.pattern(index)
	if err != nil {
		return err
	}
	if p.kind != LinearGradient {
		return &PatternError{Index: index, Err: ErrNotGradient}
	}
	if !p.valid || !finite(offset, r, g, b, a) {
		return &PatternError{Index: index, Err: ErrPatternInvalid}
	}
	p.addColorStop(ColorStop{Offset: clamp01(offset), R: r, G: g, B: b, A: a})
	return nil
}

// DestroyPattern frees the pattern at index. The index is not reused.
func (s *Screen) DestroyPattern(index int) error {
	if _, err := s.pattern(index); err != nil {
		return err
	}
	s.patterns[index] = nil
	logger.Get().Debug("pattern destroyed", "index", index)
	return nil
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
