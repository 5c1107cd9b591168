// Package draw implements the paint context used for every drawing operation.
//
// A [Context] is bound to one destination image for the duration of a single
// operation: it collects a path, applies an affine transform and rasterizes
// fills, strokes and glyph outlines with golang.org/x/image/vector. Anything
// implementing [Image] can be drawn to, including framebuffer memory.
package draw

import (
	"image"
	"image/draw"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Op is an alias for image/draw.Op
type Op = draw.Op

// Over specifies “(src in mask) over dst”.
const Over = draw.Over

// DrawMask aligns r.Min in dst with sp in src and mp in mask and then replaces the rectangle r
// in dst with the result of a Porter-Duff composition. A nil mask is treated as opaque.
func DrawMask(dst Image, r image.Rectangle, src image.Image, sp image.Point, mask image.Image, mp image.Point, op Op) {
	draw.DrawMask(dst, r, src, sp, mask, mp, op)
}
