package framebuffer

import (
	"errors"
	"image/color"
	"io/fs"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewMemory(t *testing.T) {
	for _, buffered := range []bool{false, true} {
		fb, err := NewMemory(32, 24, buffered)
		if err != nil {
			t.Fatal(err)
		}

		want := Geometry{
			ID:           "memory",
			Width:        32,
			Height:       24,
			BitsPerPixel: 16,
			Stride:       64,
			Size:         64 * 24,
		}
		if diff := cmp.Diff(want, fb.Geometry()); diff != "" {
			t.Errorf("geometry mismatch (-want +got):\n%s", diff)
		}
		if v := len(fb.Pix()); v != want.Size {
			t.Errorf("expected %d bytes of display memory, got %d", want.Size, v)
		}
		if v := fb.Buffered(); v != buffered {
			t.Errorf("expected buffered %t, got %t", buffered, v)
		}
		if buffered {
			if fb.Target() != fb.Shadow() {
				t.Error("expected buffered framebuffer to target the shadow surface")
			}
			if v := len(fb.Shadow().Pix); v != want.Size {
				t.Errorf("expected shadow of %d bytes, got %d", want.Size, v)
			}
		} else {
			if fb.Shadow() != nil {
				t.Error("expected no shadow surface")
			}
			if fb.Target() != fb.Screen() {
				t.Error("expected unbuffered framebuffer to target the screen")
			}
		}
		if err = fb.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNewMemoryInvalidSize(t *testing.T) {
	for _, size := range [][2]int{
		{0, 10},
		{10, 0},
		{-1, -1},
		{math.MaxInt, math.MaxInt},
		{1 << 15, 1 << 16},
		{1 << 14, 1<<15 + 1},
	} {
		if _, err := NewMemory(size[0], size[1], true); !errors.Is(err, ErrAlloc) {
			t.Errorf("expected ErrAlloc for %v, got %v", size, err)
		}
	}
}

func TestPresent(t *testing.T) {
	fb, err := NewMemory(8, 8, true)
	if err != nil {
		t.Fatal(err)
	}
	defer fb.Close()

	red := color.RGBA{R: 0xff, A: 0xff}
	fb.Target().Set(3, 4, red)
	if v := fb.Screen().CRGB16At(3, 4); v.V != 0 {
		t.Fatalf("expected screen to be untouched before Present, got %#04x", v.V)
	}
	if err = fb.Present(); err != nil {
		t.Fatal(err)
	}
	if v := fb.Screen().CRGB16At(3, 4); v.V != 0xf800 {
		t.Errorf("expected red after Present, got %#04x", v.V)
	}
	if diff := cmp.Diff(fb.Shadow().Pix, fb.Pix()); diff != "" {
		t.Errorf("screen differs from shadow (-shadow +screen):\n%s", diff)
	}
}

func TestPresentUnbuffered(t *testing.T) {
	fb, err := NewMemory(8, 8, false)
	if err != nil {
		t.Fatal(err)
	}
	defer fb.Close()

	fb.Target().Set(1, 1, color.White)
	if err = fb.Present(); err != nil {
		t.Fatal(err)
	}
	if v := fb.Screen().CRGB16At(1, 1); v.V != 0xffff {
		t.Errorf("expected white, got %#04x", v.V)
	}
}

func TestClose(t *testing.T) {
	var released int
	fb, err := newFramebuffer("test", Geometry{Width: 2, Height: 2, Stride: 4, Size: 8}, make([]byte, 8), true, func() error {
		released++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if err = fb.Close(); err != nil {
		t.Fatal(err)
	}
	if released != 1 {
		t.Errorf("expected release to be called once, got %d", released)
	}
	if fb.Screen() != nil || fb.Shadow() != nil || fb.Pix() != nil {
		t.Error("expected surfaces to be dropped on Close")
	}
	if err = fb.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on second Close, got %v", err)
	}
	if err = fb.Present(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from Present, got %v", err)
	}
	if released != 1 {
		t.Errorf("expected release to stay at one call, got %d", released)
	}
}

func TestNewFramebufferShortMemory(t *testing.T) {
	_, err := newFramebuffer("test", Geometry{Width: 4, Height: 4, Stride: 8, Size: 16}, make([]byte, 16), false, nil)
	if !errors.Is(err, ErrSurface) {
		t.Errorf("expected ErrSurface, got %v", err)
	}
}

func TestError(t *testing.T) {
	err := error(&Error{Op: "open", Path: "/dev/fb9", Kind: ErrOpen, Err: fs.ErrNotExist})
	if !errors.Is(err, ErrOpen) {
		t.Error("expected error to match its kind")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected error to match its cause")
	}
	if want := "framebuffer: error opening device: open /dev/fb9: file does not exist"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
