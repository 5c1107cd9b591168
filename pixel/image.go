package pixel

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// ErrShortBuffer is returned when a pixel buffer cannot hold the requested geometry.
var ErrShortBuffer = errors.New("pixel: buffer too small for image geometry")

// Image is a drawable image that can be cleared and filled in one go.
type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by most image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

// Clear zeroes the whole buffer, including any memory past the visible rows.
func (p *Buffer) Clear() {
	clear(p.Pix)
}

// CRGB16Image is a 16-bits per pixel 5-6-5-bit RGB image.
type CRGB16Image struct {
	Buffer
	Order binary.ByteOrder
}

// NewCRGB16Image allocates a w×h image in host byte order.
func NewCRGB16Image(w, h int) *CRGB16Image {
	return &CRGB16Image{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    make([]byte, w*2*h),
			Stride: w * 2,
		},
		Order: binary.NativeEndian,
	}
}

// WrapCRGB16Image returns an image backed by pix, which remains owned by the caller.
func WrapCRGB16Image(pix []byte, w, h, stride int, order binary.ByteOrder) (*CRGB16Image, error) {
	if w < 0 || h < 0 || stride < w*2 {
		return nil, ErrShortBuffer
	}
	if h > 0 && len(pix) < (h-1)*stride+w*2 {
		return nil, ErrShortBuffer
	}
	if order == nil {
		order = binary.NativeEndian
	}
	return &CRGB16Image{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    pix,
			Stride: stride,
		},
		Order: order,
	}, nil
}

func (p *CRGB16Image) ColorModel() color.Model {
	return CRGB16Model
}

// Opaque reports whether the image is fully opaque, which it always is.
func (p *CRGB16Image) Opaque() bool {
	return true
}

func (p *CRGB16Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *CRGB16Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return p.CRGB16At(x, y)
}

// CRGB16At returns the packed pixel at (x, y), or zero when out of bounds.
func (p *CRGB16Image) CRGB16At(x, y int) CRGB16 {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return CRGB16{}
	}
	return CRGB16{p.Order.Uint16(p.Pix[p.PixOffset(x, y):])}
}

func (p *CRGB16Image) Set(x, y int, c color.Color) {
	p.SetCRGB16(x, y, toCRGB16(c))
}

// SetCRGB16 stores a packed pixel at (x, y).
func (p *CRGB16Image) SetCRGB16(x, y int, c CRGB16) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Order.PutUint16(p.Pix[p.PixOffset(x, y):], c.V)
}

// Fill sets every visible pixel to c; row padding is left alone.
func (p *CRGB16Image) Fill(c color.Color) {
	var (
		value = toCRGB16(c).V
		bytes = make([]byte, 2)
		w     = p.Rect.Dx() * 2
	)
	p.Order.PutUint16(bytes, value)
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		row := p.Pix[p.PixOffset(p.Rect.Min.X, y):][:w]
		for i := 0; i < w; i += 2 {
			copy(row[i:], bytes)
		}
	}
}

// Interface checks.
var (
	_ Image = (*CRGB16Image)(nil)
)
