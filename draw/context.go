package draw

import (
	"image"
	"image/color"
	"math"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/BeatGlow/pitft/pixel"
)

// DefaultLineWidth is the stroke width of a new context.
const DefaultLineWidth = 1

// identity is the identity transform.
var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Context is a paint context bound to a destination image.
//
// The path is recorded in device space, using the transform that was current
// when each segment was added. Only translations and rotations are supported,
// so stroke widths are the same in user and device space.
type Context struct {
	dst       Image
	size      image.Point
	raster    *vector.Rasterizer
	src       image.Image
	matrix    f64.Aff3
	lineWidth float64
	path      []subpath
	current   point // in user space
	hasPoint  bool

	font     *truetype.Font
	fontSize float64
	glyphs   truetype.GlyphBuf
}

// NewContext returns a context drawing onto dst, with an opaque black source.
func NewContext(dst Image) *Context {
	size := dst.Bounds().Size()
	return &Context{
		dst:       dst,
		size:      size,
		raster:    vector.NewRasterizer(size.X, size.Y),
		src:       image.NewUniform(color.Black),
		matrix:    identity,
		lineWidth: DefaultLineWidth,
	}
}

// Close releases the destination. Drawing on a closed context does nothing.
func (c *Context) Close() {
	c.dst = nil
	c.src = nil
	c.path = nil
	c.font = nil
}

// Closed reports whether Close was called.
func (c *Context) Closed() bool {
	return c.dst == nil
}

// SetSource sets the image that fills and strokes are painted with. The source is
// sampled in device space.
func (c *Context) SetSource(src image.Image) {
	c.src = src
}

// SetSourceColor paints with a single color.
func (c *Context) SetSourceColor(col color.Color) {
	c.src = image.NewUniform(col)
}

// SetLineWidth sets the stroke width.
func (c *Context) SetLineWidth(width float64) {
	c.lineWidth = width
}

// LineWidth returns the stroke width.
func (c *Context) LineWidth() float64 {
	return c.lineWidth
}

// Translate moves the user space origin by (x, y).
func (c *Context) Translate(x, y float64) {
	m := c.matrix
	c.matrix[2] = m[0]*x + m[1]*y + m[2]
	c.matrix[5] = m[3]*x + m[4]*y + m[5]
}

// Rotate rotates user space by angle radians, clockwise on screen.
func (c *Context) Rotate(angle float64) {
	var (
		m        = c.matrix
		sin, cos = math.Sincos(angle)
	)
	c.matrix[0] = m[0]*cos + m[1]*sin
	c.matrix[1] = m[1]*cos - m[0]*sin
	c.matrix[3] = m[3]*cos + m[4]*sin
	c.matrix[4] = m[4]*cos - m[3]*sin
}

// Matrix returns the current user to device transform.
func (c *Context) Matrix() f64.Aff3 {
	return c.matrix
}

// transform maps a user space point to device space.
func (c *Context) transform(x, y float64) point {
	m := c.matrix
	return point{
		X: m[0]*x + m[1]*y + m[2],
		Y: m[3]*x + m[4]*y + m[5],
	}
}

// Paint paints the source everywhere on the destination.
func (c *Context) Paint() {
	if c.Closed() {
		return
	}
	r := c.dst.Bounds()
	if u, ok := c.src.(*image.Uniform); ok {
		if _, _, _, a := u.RGBA(); a == 0xffff {
			if p, ok := c.dst.(pixel.Image); ok {
				p.Fill(u.C)
				return
			}
		}
	}
	DrawMask(c.dst, r, c.src, r.Min, nil, image.Point{}, Over)
}

// Fill fills the current path using the non-zero winding rule and clears it.
func (c *Context) Fill() {
	if c.Closed() {
		c.NewPath()
		return
	}
	var drawn bool
	for _, sp := range c.path {
		if len(sp.points) < 3 || !drawable(sp.points) {
			continue
		}
		c.addPolygon(sp.points)
		drawn = true
	}
	if drawn {
		c.rasterize()
	}
	c.NewPath()
}

// Stroke strokes the current path with butt caps and mitered joins, then
// clears it.
func (c *Context) Stroke() {
	if c.Closed() || !(c.lineWidth > 0 && c.lineWidth <= maxCoord) {
		c.NewPath()
		return
	}
	var drawn bool
	for _, sp := range c.path {
		var polys [][]point
		ok := true
		strokeSubpath(sp, c.lineWidth, func(poly []point) {
			polys = append(polys, poly)
			ok = ok && drawable(poly)
		})
		if !ok {
			continue
		}
		for _, poly := range polys {
			c.addPolygon(poly)
			drawn = true
		}
	}
	if drawn {
		c.rasterize()
	}
	c.NewPath()
}

// maxCoord bounds the device coordinates handed to the rasterizer, whose fixed
// point math overflows well before float32 does.
const maxCoord = 1 << 20

// drawable reports whether every point of poly is finite and within maxCoord.
// Subpaths that are not drawable are skipped as a whole.
func drawable(poly []point) bool {
	for _, p := range poly {
		if !p.finite() || math.Abs(p.X) > maxCoord || math.Abs(p.Y) > maxCoord {
			return false
		}
	}
	return true
}

// addPolygon feeds a closed device space polygon to the rasterizer.
func (c *Context) addPolygon(poly []point) {
	c.raster.MoveTo(float32(poly[0].X), float32(poly[0].Y))
	for _, p := range poly[1:] {
		c.raster.LineTo(float32(p.X), float32(p.Y))
	}
	c.raster.ClosePath()
}

// rasterize composites the accumulated coverage and resets the rasterizer.
func (c *Context) rasterize() {
	r := c.dst.Bounds()
	c.raster.DrawOp = Over
	c.raster.Draw(c.dst, r, c.src, r.Min)
	c.raster.Reset(c.size.X, c.size.Y)
}
