package draw

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// DrawImage composites img over the destination with its top left corner at
// (x,y) in user space. Whole pixel translations are copied exactly; any other
// placement is resampled bilinearly.
func (c *Context) DrawImage(img image.Image, x, y float64) {
	if c.Closed() {
		return
	}
	var (
		m  = c.matrix
		sr = img.Bounds()
		tx = m[0]*x + m[1]*y + m[2]
		ty = m[3]*x + m[4]*y + m[5]
	)
	if !drawable([]point{{tx, ty}, {tx + float64(sr.Dx()), ty + float64(sr.Dy())}}) {
		return
	}
	if m[0] == 1 && m[1] == 0 && m[3] == 0 && m[4] == 1 && tx == math.Trunc(tx) && ty == math.Trunc(ty) {
		r := image.Rectangle{Max: sr.Size()}.Add(image.Pt(int(tx), int(ty)))
		DrawMask(c.dst, r, img, sr.Min, nil, image.Point{}, Over)
		return
	}

	// The transform maps source pixel coordinates to the destination.
	s2d := f64.Aff3{
		m[0], m[1], tx - m[0]*float64(sr.Min.X) - m[1]*float64(sr.Min.Y),
		m[3], m[4], ty - m[3]*float64(sr.Min.X) - m[4]*float64(sr.Min.Y),
	}
	xdraw.BiLinear.Transform(c.dst, s2d, img, sr, xdraw.Over, nil)
}
