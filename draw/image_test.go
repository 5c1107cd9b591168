package draw

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/BeatGlow/pitft/pixel"
)

func TestDrawImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 12))
	for y := 10; y < 12; y++ {
		for x := 10; x < 12; x++ {
			src.Set(x, y, color.White)
		}
	}

	t.Run("translated", func(it *testing.T) {
		img := pixel.NewCRGB16Image(10, 10)
		c := NewContext(img)
		defer c.Close()

		c.Translate(2, 3)
		c.DrawImage(src, 1, 1)
		if diff := cmp.Diff(square(3, 4, 5, 6, 0xffff), covered(img)); diff != "" {
			it.Errorf("unexpected pixels (-want +got):\n%s", diff)
		}
	})

	t.Run("rotated", func(it *testing.T) {
		img := pixel.NewCRGB16Image(10, 10)
		c := NewContext(img)
		defer c.Close()

		c.Translate(5, 5)
		c.Rotate(math.Pi / 2)
		c.DrawImage(src, 0, 0)
		ink := covered(img)
		if len(ink) == 0 {
			it.Fatal("expected pixels")
		}
		for p := range ink {
			if p.X > 5 || p.Y < 5 {
				it.Errorf("pixel %s outside of the rotated quadrant", p)
			}
		}
	})
}
