package draw

import (
	"math"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Extents describes the ink of a string in user space, relative to the
// insertion point on the baseline. Y grows downwards, so YBearing is negative
// for glyphs above the baseline.
type Extents struct {
	XBearing float64
	YBearing float64
	Width    float64
	Height   float64
	XAdvance float64
}

// SetFont selects the face and pixel size used by ShowText and TextExtents.
func (c *Context) SetFont(f *truetype.Font, size float64) {
	c.font = f
	c.fontSize = size
}

// Font returns the selected face and size.
func (c *Context) Font() (*truetype.Font, float64) {
	return c.font, c.fontSize
}

func (c *Context) scale() fixed.Int26_6 {
	return fixed.Int26_6(math.Round(c.fontSize * 64))
}

// glyphFunc is called for every glyph of a string with its pen position in user space.
type glyphFunc func(pen float64, g *truetype.GlyphBuf)

// layout loads every glyph of s, kerning between pairs, and returns the
// total advance.
func (c *Context) layout(s string, fn glyphFunc) float64 {
	if c.font == nil || c.fontSize <= 0 {
		return 0
	}
	var (
		scale = c.scale()
		pen   fixed.Int26_6
		prev  truetype.Index
		first = true
	)
	for _, r := range s {
		index := c.font.Index(r)
		if !first {
			pen += c.font.Kern(scale, prev, index)
		}
		if err := c.glyphs.Load(c.font, scale, index, font.HintingNone); err == nil {
			fn(fix(pen), &c.glyphs)
		}
		pen += c.font.HMetric(scale, index).AdvanceWidth
		prev, first = index, false
	}
	return fix(pen)
}

// TextExtents measures the ink of s.
func (c *Context) TextExtents(s string) Extents {
	var (
		ext                    Extents
		minX, minY, maxX, maxY = math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	)
	ext.XAdvance = c.layout(s, func(pen float64, g *truetype.GlyphBuf) {
		if len(g.Ends) == 0 {
			return
		}
		b := g.Bounds
		minX = math.Min(minX, pen+fix(b.Min.X))
		maxX = math.Max(maxX, pen+fix(b.Max.X))
		// Glyph coordinates grow upwards.
		minY = math.Min(minY, -fix(b.Max.Y))
		maxY = math.Max(maxY, -fix(b.Min.Y))
	})
	if minX > maxX {
		return ext
	}
	ext.XBearing = minX
	ext.YBearing = minY
	ext.Width = maxX - minX
	ext.Height = maxY - minY
	return ext
}

// ShowText fills the outlines of s with its baseline origin at the current
// point, which is then advanced past the string. Without a current point the
// text starts at the user space origin.
func (c *Context) ShowText(s string) {
	if c.Closed() {
		return
	}
	x, y, _ := c.CurrentPoint()
	var drawn bool
	advance := c.layout(s, func(pen float64, g *truetype.GlyphBuf) {
		start := 0
		for _, end := range g.Ends {
			if c.addContour(g.Points[start:end], x+pen, y) {
				drawn = true
			}
			start = end
		}
	})
	if drawn {
		c.rasterize()
	}
	c.NewPath()
	c.MoveTo(x+advance, y)
}

// addContour feeds one quadratic glyph contour to the rasterizer. The low bit
// of each point's flags tells whether the point is on the curve; two
// consecutive off-curve points imply an on-curve point between them. Contours
// that would land outside the drawable range are skipped and reported false.
func (c *Context) addContour(ps []truetype.Point, dx, dy float64) bool {
	if len(ps) == 0 {
		return false
	}
	at := func(p truetype.Point) point {
		return c.transform(dx+fix(p.X), dy-fix(p.Y))
	}
	mapped := make([]point, len(ps))
	for i, p := range ps {
		mapped[i] = at(p)
	}
	if !drawable(mapped) {
		return false
	}
	onCurve := func(p truetype.Point) bool {
		return p.Flags&0x01 != 0
	}

	var (
		start  = at(ps[0])
		others []truetype.Point
	)
	switch last := ps[len(ps)-1]; {
	case onCurve(ps[0]):
		others = ps[1:]
	case onCurve(last):
		start = at(last)
		others = ps[:len(ps)-1]
	default:
		start = start.add(at(last)).mul(0.5)
		others = ps
	}

	c.raster.MoveTo(float32(start.X), float32(start.Y))
	q0, on0 := start, true
	for _, p := range others {
		q, on := at(p), onCurve(p)
		switch {
		case on && on0:
			c.raster.LineTo(float32(q.X), float32(q.Y))
		case on:
			c.raster.QuadTo(float32(q0.X), float32(q0.Y), float32(q.X), float32(q.Y))
		case !on0:
			mid := q0.add(q).mul(0.5)
			c.raster.QuadTo(float32(q0.X), float32(q0.Y), float32(mid.X), float32(mid.Y))
		}
		q0, on0 = q, on
	}
	if on0 {
		c.raster.LineTo(float32(start.X), float32(start.Y))
	} else {
		c.raster.QuadTo(float32(q0.X), float32(q0.Y), float32(start.X), float32(start.Y))
	}
	c.raster.ClosePath()
	return true
}

// fix converts a 26.6 fixed point value to a float.
func fix(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
