package pitft

import (
	"math"

	"github.com/golang/freetype/truetype"
	"golang.org/x/text/unicode/norm"

	"github.com/BeatGlow/pitft/draw"
	"github.com/BeatGlow/pitft/internal/fonts"
	"github.com/BeatGlow/pitft/internal/logger"
)

// DefaultFontSize is the font size in pixels used when none is given.
const DefaultFontSize = 12

// Font is the font selection used by [Screen.Text].
type Font struct {
	Family string
	Size   float64
	Bold   bool
}

// DefaultFont is the embedded Go font at the default size.
var DefaultFont = Font{Size: DefaultFontSize}

// Align is the horizontal placement of text relative to its insertion point.
type Align uint8

// Alignments.
const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// AlignFromFlags maps a centered and a right aligned flag to an alignment.
// Centered takes precedence.
func AlignFromFlags(centered, right bool) Align {
	switch {
	case centered:
		return AlignCenter
	case right:
		return AlignRight
	default:
		return AlignLeft
	}
}

// TextOptions control the placement of text.
type TextOptions struct {
	Align Align

	// Rotation in degrees, clockwise, about the insertion point.
	Rotation float64
}

// SetFont selects the font family, size in pixels and weight. The family is
// resolved when drawing; unknown families use the embedded Go fonts. A size of
// zero or less selects [DefaultFontSize].
func (s *Screen) SetFont(family string, size float64, bold bool) {
	if !(size > 0) || math.IsInf(size, 0) {
		size = DefaultFontSize
	}
	s.font = Font{Family: family, Size: size, Bold: bold}
}

// Font returns the font selection.
func (s *Screen) Font() Font {
	return s.font
}

func (s *Screen) face() *truetype.Font {
	if s.font.Family != "" {
		f, err := s.fonts.Find(s.font.Family, s.font.Bold)
		if err == nil {
			return f
		}
		logger.Get().Debug("font fallback", "family", s.font.Family, "bold", s.font.Bold, "error", err)
	}
	return fonts.Default(s.font.Bold)
}

// Text draws text with its insertion point at (x,y). For left and right
// aligned text the insertion point is on the baseline; centered text has the
// middle of its ink at the insertion point.
func (s *Screen) Text(x, y float64, text string, opts TextOptions) error {
	c, err := s.prepare()
	if err != nil {
		return err
	}
	defer c.Close()

	s.layoutText(c, x, y, norm.NFC.String(text), opts)
	return nil
}

// TextExtents measures text with the current font, without drawing.
func (s *Screen) TextExtents(text string) (draw.Extents, error) {
	c, err := s.context()
	if err != nil {
		return draw.Extents{}, err
	}
	defer c.Close()

	c.SetFont(s.face(), s.font.Size)
	return c.TextExtents(norm.NFC.String(text)), nil
}

func (s *Screen) layoutText(c *draw.Context, x, y float64, text string, opts TextOptions) {
	c.SetFont(s.face(), s.font.Size)
	c.Translate(x, y)
	if opts.Rotation != 0 && finite(opts.Rotation) {
		c.Rotate(opts.Rotation * math.Pi / 180)
	}

	switch opts.Align {
	case AlignCenter:
		e := c.TextExtents(text)
		c.MoveTo(-e.XBearing-e.Width/2, -e.YBearing-e.Height/2)
	case AlignRight:
		e := c.TextExtents(text)
		c.MoveTo(-e.Width, 0)
	default:
		c.MoveTo(0, 0)
	}
	c.ShowText(text)
}
