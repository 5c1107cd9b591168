package draw

import "math"

// ArcTolerance is the maximum distance, in device pixels, between a flattened
// arc and the true circle.
const ArcTolerance = 0.1

// MiterLimit is the ratio of miter length to line width above which a join is
// beveled instead.
const MiterLimit = 10

// maxArcSegments caps the number of segments an arc is flattened into.
const maxArcSegments = 1024

type point struct {
	X, Y float64
}

func (p point) add(q point) point     { return point{p.X + q.X, p.Y + q.Y} }
func (p point) sub(q point) point     { return point{p.X - q.X, p.Y - q.Y} }
func (p point) mul(f float64) point   { return point{p.X * f, p.Y * f} }
func (p point) dot(q point) float64   { return p.X*q.X + p.Y*q.Y }
func (p point) cross(q point) float64 { return p.X*q.Y - p.Y*q.X }
func (p point) perp() point           { return point{-p.Y, p.X} }
func (p point) length() float64       { return math.Hypot(p.X, p.Y) }
func (p point) near(q point) bool     { return math.Abs(p.X-q.X) < 1e-9 && math.Abs(p.Y-q.Y) < 1e-9 }
func (p point) unit() point           { return p.mul(1 / p.length()) }
func (p point) finite() bool          { return isFinite(p.X) && isFinite(p.Y) }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// subpath is a polyline in device space.
type subpath struct {
	points []point
	closed bool
}

// NewPath discards the current path and current point.
func (c *Context) NewPath() {
	c.path = c.path[:0]
	c.hasPoint = false
}

// CurrentPoint returns the current point in user space.
func (c *Context) CurrentPoint() (x, y float64, ok bool) {
	return c.current.X, c.current.Y, c.hasPoint
}

// MoveTo begins a new subpath at (x, y).
func (c *Context) MoveTo(x, y float64) {
	c.path = append(c.path, subpath{points: []point{c.transform(x, y)}})
	c.current = point{x, y}
	c.hasPoint = true
}

// LineTo adds a line to (x, y). Without a current point it behaves like MoveTo.
func (c *Context) LineTo(x, y float64) {
	if !c.hasPoint || len(c.path) == 0 {
		c.MoveTo(x, y)
		return
	}
	if c.path[len(c.path)-1].closed {
		c.MoveTo(c.current.X, c.current.Y)
	}
	sp := &c.path[len(c.path)-1]
	sp.points = append(sp.points, c.transform(x, y))
	c.current = point{x, y}
}

// ClosePath closes the current subpath with a line back to its start.
func (c *Context) ClosePath() {
	if len(c.path) == 0 {
		return
	}
	sp := &c.path[len(c.path)-1]
	if sp.closed {
		return
	}
	sp.closed = true
	// The current point moves back to the start of the subpath, in user space.
	if inv, ok := c.inverse(sp.points[0]); ok {
		c.current = inv
	}
}

// Rectangle adds a closed rectangle subpath.
func (c *Context) Rectangle(x, y, width, height float64) {
	c.MoveTo(x, y)
	c.LineTo(x+width, y)
	c.LineTo(x+width, y+height)
	c.LineTo(x, y+height)
	c.ClosePath()
}

// Arc adds a circular arc centered on (xc, yc) from angle1 to angle2, in
// radians, increasing clockwise on screen. If there is a current point a line
// joins it to the start of the arc.
func (c *Context) Arc(xc, yc, radius, angle1, angle2 float64) {
	for angle2 < angle1 {
		angle2 += 2 * math.Pi
	}
	if radius <= 0 {
		c.lineOrMove(xc, yc)
		return
	}

	sweep := angle2 - angle1
	step := math.Pi / 2
	if radius > ArcTolerance {
		step = 2 * math.Acos(1-ArcTolerance/radius)
	}
	n := int(math.Ceil(sweep / step))
	n = max(n, 1)
	n = min(n, maxArcSegments)

	for i := 0; i <= n; i++ {
		a := angle1 + sweep*float64(i)/float64(n)
		x, y := xc+radius*math.Cos(a), yc+radius*math.Sin(a)
		if i == 0 {
			c.lineOrMove(x, y)
		} else {
			c.LineTo(x, y)
		}
	}
}

func (c *Context) lineOrMove(x, y float64) {
	if c.hasPoint && len(c.path) > 0 && !c.path[len(c.path)-1].closed {
		c.LineTo(x, y)
	} else {
		c.MoveTo(x, y)
	}
}

// inverse maps a device space point back to user space.
func (c *Context) inverse(p point) (point, bool) {
	m := c.matrix
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 {
		return point{}, false
	}
	x, y := p.X-m[2], p.Y-m[5]
	return point{
		X: (m[4]*x - m[1]*y) / det,
		Y: (m[0]*y - m[3]*x) / det,
	}, true
}

// strokeSubpath emits the polygons covering a stroke of sp: one quad per
// segment plus one join polygon per corner. Every polygon is emitted with the
// same orientation so that overlaps do not cancel out under non-zero winding.
func strokeSubpath(sp subpath, width float64, emit func([]point)) {
	pts := make([]point, 0, len(sp.points))
	for _, p := range sp.points {
		if !p.finite() {
			return
		}
		if len(pts) > 0 && p.near(pts[len(pts)-1]) {
			continue
		}
		pts = append(pts, p)
	}
	if sp.closed && len(pts) > 1 && pts[0].near(pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 2 {
		return
	}

	half := width / 2
	segments := len(pts) - 1
	if sp.closed && len(pts) > 2 {
		segments = len(pts)
	}

	dirs := make([]point, segments)
	for i := 0; i < segments; i++ {
		a, b := pts[i], pts[(i+1)%len(pts)]
		dirs[i] = b.sub(a).unit()
		n := dirs[i].perp().mul(half)
		emit(positive([]point{a.add(n), b.add(n), b.sub(n), a.sub(n)}))
	}

	join := func(p, d0, d1 point) {
		cross := d0.cross(d1)
		dot := d0.dot(d1)
		if math.Abs(cross) < 1e-12 && dot > 0 {
			return
		}
		side := 1.0
		if cross > 0 {
			side = -1
		}
		n0, n1 := d0.perp().mul(half), d1.perp().mul(half)
		o0, o1 := p.add(n0.mul(side)), p.add(n1.mul(side))

		cosHalf := math.Sqrt((1 + dot) / 2)
		if cosHalf*MiterLimit < 1 {
			emit(positive([]point{p, o0, o1}))
			return
		}
		bisector := n0.add(n1).mul(side).unit()
		tip := p.add(bisector.mul(half / cosHalf))
		emit(positive([]point{p, o0, tip, o1}))
	}
	for i := 1; i < segments; i++ {
		join(pts[i], dirs[i-1], dirs[i])
	}
	if segments == len(pts) {
		join(pts[0], dirs[segments-1], dirs[0])
	}
}

// positive returns poly with a non-negative signed area.
func positive(poly []point) []point {
	var area float64
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		area += p.cross(q)
	}
	if area < 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}
	return poly
}
