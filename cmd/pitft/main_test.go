package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BeatGlow/pitft"
	"github.com/BeatGlow/pitft/framebuffer"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		In   string
		W, H int
		Err  bool
	}{
		{"320x240", 320, 240, false},
		{"1x1", 1, 1, false},
		{"320", 0, 0, true},
		{"0x240", 0, 0, true},
		{"ax2", 0, 0, true},
	}
	for _, test := range tests {
		w, h, err := parseSize(test.In)
		if (err != nil) != test.Err {
			t.Errorf("%q: unexpected error %v", test.In, err)
			continue
		}
		if w != test.W || h != test.H {
			t.Errorf("%q: expected %dx%d, got %dx%d", test.In, test.W, test.H, w, h)
		}
	}
}

func TestParseColor(t *testing.T) {
	r, g, b, err := parseColor("1, 0.5,0")
	if err != nil {
		t.Fatal(err)
	}
	if r != 1 || g != 0.5 || b != 0 {
		t.Errorf("expected 1,0.5,0, got %g,%g,%g", r, g, b)
	}
	for _, value := range []string{"", "1,2", "1,x,3"} {
		if _, _, _, err = parseColor(value); err == nil {
			t.Errorf("%q: expected error", value)
		}
	}
}

func TestDemo(t *testing.T) {
	fb, err := framebuffer.NewMemory(64, 48, true)
	if err != nil {
		t.Fatal(err)
	}
	s := pitft.New(fb, nil)
	defer s.Close()

	framesFlag, intervalFlag = 2, time.Millisecond
	if err = demo(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	var lit int
	for _, v := range s.Data() {
		if v != 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("expected the demo to draw")
	}
}

func TestWithScreenMemory(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.png")
	deviceFlag, sizeFlag, outputFlag, colorFlag = memoryDevice, "16x8", output, "1,0,0"
	t.Cleanup(func() { outputFlag = "" })

	if err := withScreen(func(s *pitft.Screen) error {
		return s.Rect(0, 0, 4, 4, pitft.Filled)
	}); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(output); err != nil || fi.Size() == 0 {
		t.Errorf("expected a PNG at %s, got %v", output, err)
	}
}

func TestCloseScreen(t *testing.T) {
	fb, err := framebuffer.NewMemory(4, 4, false)
	if err != nil {
		t.Fatal(err)
	}
	s := pitft.New(fb, nil)

	closeScreen(s, &err)
	if err != nil {
		t.Fatalf("expected clean close, got %v", err)
	}

	// A second Close fails, and the failure must not get lost.
	closeScreen(s, &err)
	if !errors.Is(err, pitft.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	failed := errors.New("draw failed")
	err = failed
	closeScreen(s, &err)
	if !errors.Is(err, failed) || !errors.Is(err, pitft.ErrClosed) {
		t.Errorf("expected both the draw and the close error, got %v", err)
	}
}
