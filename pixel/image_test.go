package pixel

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func TestCRGB16Image(t *testing.T) {
	testImage(t, func(size image.Point) Image {
		return NewCRGB16Image(size.X, size.Y)
	}, CRGB16Model)
}

func TestWrapCRGB16Image(t *testing.T) {
	testImage(t, func(size image.Point) Image {
		// Padded rows, as reported by some framebuffer drivers.
		stride := size.X*2 + 8
		i, err := WrapCRGB16Image(make([]byte, stride*size.Y), size.X, size.Y, stride, binary.BigEndian)
		if err != nil {
			t.Fatal(err)
		}
		return i
	}, CRGB16Model)
}

func TestWrapCRGB16ImageShortBuffer(t *testing.T) {
	tests := []struct {
		Name          string
		Len, W, H, St int
	}{
		{"short", 10, 4, 2, 8},
		{"stride", 64, 4, 2, 6},
		{"negative", 64, -1, 2, 8},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			_, err := WrapCRGB16Image(make([]byte, test.Len), test.W, test.H, test.St, nil)
			if !errors.Is(err, ErrShortBuffer) {
				it.Errorf("expected ErrShortBuffer, got %v", err)
			}
		})
	}
}

func TestCRGB16ImageByteOrder(t *testing.T) {
	pix := make([]byte, 4)
	i, err := WrapCRGB16Image(pix, 2, 1, 4, binary.LittleEndian)
	if err != nil {
		t.Fatal(err)
	}
	i.Set(1, 0, color.RGBA{R: 0xff, A: 0xff})
	if pix[2] != 0x00 || pix[3] != 0xf8 {
		t.Errorf("expected little endian 0xf800 at offset 2, got % x", pix)
	}
}

func TestCRGB16ImageFillKeepsPadding(t *testing.T) {
	pix := make([]byte, 2*8)
	i, err := WrapCRGB16Image(pix, 2, 2, 8, nil)
	if err != nil {
		t.Fatal(err)
	}
	i.Fill(color.White)
	for _, off := range []int{4, 5, 6, 7, 12, 13, 14, 15} {
		if pix[off] != 0 {
			t.Fatalf("expected padding byte %d to be untouched, got %#02x", off, pix[off])
		}
	}
	if v := i.CRGB16At(1, 1); v.V != 0xffff {
		t.Errorf("expected white, got %#04x", v.V)
	}
}

func testImage(t *testing.T, f func(image.Point) Image, model color.Model) {
	t.Helper()
	testCases := []image.Point{
		{},
		image.Pt(1, 1),
		image.Pt(2, 2),
		image.Pt(320, 240),
		image.Pt(240, 320),
	}
	for _, test := range testCases {
		t.Run(test.String(), func(it *testing.T) {
			i := f(test)

			if v := i.Bounds().Size(); !v.Eq(test) {
				it.Errorf("expected image size %s, got %s", test, v)
			}

			if v := i.ColorModel(); v != model {
				it.Errorf("expected color model %T, got %T", model, v)
			}

			it.Run("in-bounds", func(itt *testing.T) {
				for y := 0; y < test.Y; y++ {
					for x := 0; x < test.X; x++ {
						c := testRandomColor()
						i.Set(x, y, c)
						if v := i.ColorModel().Convert(c); i.At(x, y) != v {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
							return
						}
					}
				}
			})

			it.Run("out-bounds", func(itt *testing.T) {
				for y := -test.Y; y < test.Y*2; y++ {
					for x := -test.X; x < test.X*2; x++ {
						i.Set(x, y, testRandomColor())
						if x < 0 || y < 0 {
							if v := i.At(x, y); v != color.Transparent {
								itt.Fatalf("pixel (%d,%d) is %#+v, expected transparent", x, y, v)
								return
							}
						}
					}
				}
			})

			it.Run("fill", func(itt *testing.T) {
				c := testRandomColor()
				i.Fill(c)
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if v := i.ColorModel().Convert(c); i.At(x, y) != v {
						itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
						return
					}
				}
			})

			it.Run("clear", func(itt *testing.T) {
				i.Clear()
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if v := i.At(x, y); v != (CRGB16{}) {
						itt.Fatalf("pixel (%d,%d) is not black", x, y)
					}
				}
			})
		})
	}
}

func testRandomColor() color.Color {
	return color.RGBA{
		R: uint8(rand.Intn(255)),
		G: uint8(rand.Intn(255)),
		B: uint8(rand.Intn(255)),
		A: 0xFF,
	}
}
