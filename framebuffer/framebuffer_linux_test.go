package framebuffer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sys/unix"

	"github.com/BeatGlow/pitft/internal/ioctl"
)

func TestOpenMissing(t *testing.T) {
	fb, err := Open(filepath.Join(t.TempDir(), "fb9"), nil)
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
	if fb != nil {
		t.Error("expected no framebuffer on error")
	}
}

func TestOpenNotAFramebuffer(t *testing.T) {
	name := filepath.Join(t.TempDir(), "fb0")
	if err := os.WriteFile(name, make([]byte, 64), 0o600); err != nil {
		t.Fatal(err)
	}
	fb, err := Open(name, &Config{Buffered: true})
	if !errors.Is(err, ErrQuery) {
		t.Fatalf("expected ErrQuery, got %v", err)
	}
	if !errors.Is(err, unix.ENOTTY) {
		t.Errorf("expected ENOTTY cause, got %v", err)
	}
	if fb != nil {
		t.Error("expected no framebuffer on error")
	}
}

func TestLinuxIsRGB565(t *testing.T) {
	tests := []struct {
		Name string
		Info linuxVarScreenInfo
		Want bool
	}{
		{"rgb565", linuxVarScreenInfo{
			BitsPerPixel: 16,
			Red:          linuxBitField{Offset: 11, Length: 5},
			Green:        linuxBitField{Offset: 5, Length: 6},
			Blue:         linuxBitField{Offset: 0, Length: 5},
		}, true},
		{"bgr565", linuxVarScreenInfo{
			BitsPerPixel: 16,
			Red:          linuxBitField{Offset: 0, Length: 5},
			Green:        linuxBitField{Offset: 5, Length: 6},
			Blue:         linuxBitField{Offset: 11, Length: 5},
		}, false},
		{"unset", linuxVarScreenInfo{BitsPerPixel: 16}, true},
		{"rgb888", linuxVarScreenInfo{
			BitsPerPixel: 24,
			Red:          linuxBitField{Offset: 16, Length: 8},
			Green:        linuxBitField{Offset: 8, Length: 8},
			Blue:         linuxBitField{Offset: 0, Length: 8},
		}, false},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			if v := linuxIsRGB565(&test.Info); v != test.Want {
				it.Errorf("expected %t, got %t", test.Want, v)
			}
		})
	}
}

func TestScreenInfoLayout(t *testing.T) {
	// Sizes from <linux/fb.h>.
	if v := unsafe.Sizeof(linuxVarScreenInfo{}); v != 160 {
		t.Errorf("expected fb_var_screeninfo to be 160 bytes, got %d", v)
	}
	want := uintptr(68)
	if unsafe.Sizeof(uintptr(0)) == 8 {
		want = 80
	}
	if v := unsafe.Sizeof(linuxFixScreenInfo{}); v != want {
		t.Errorf("expected fb_fix_screeninfo to be %d bytes, got %d", want, v)
	}
}

var (
	rgb565 = linuxVarScreenInfo{
		Xres:         320,
		Yres:         240,
		BitsPerPixel: 16,
		Red:          linuxBitField{Offset: 11, Length: 5},
		Green:        linuxBitField{Offset: 5, Length: 6},
		Blue:         linuxBitField{Offset: 0, Length: 5},
	}
	xrgb8888 = linuxVarScreenInfo{
		Xres:         320,
		Yres:         240,
		BitsPerPixel: 32,
		Red:          linuxBitField{Offset: 16, Length: 8},
		Green:        linuxBitField{Offset: 8, Length: 8},
		Blue:         linuxBitField{Offset: 0, Length: 8},
	}
)

// fakeDriver answers screen info requests like an fbdev driver would.
type fakeDriver struct {
	mode linuxVarScreenInfo

	// select16 picks the mode the driver switches to when asked for 16 bits
	// per pixel; nil means the request is honoured with RGB 5-6-5.
	select16 func(want linuxVarScreenInfo) linuxVarScreenInfo
	refuse   error // returned by every put
	puts     []uint32
}

func (f *fakeDriver) request(_ uintptr, command ioctl.Command, arg unsafe.Pointer) error {
	switch command {
	case fbioGetVScreenInfo:
		*(*linuxVarScreenInfo)(arg) = f.mode
	case fbioPutVScreenInfo:
		want := *(*linuxVarScreenInfo)(arg)
		f.puts = append(f.puts, want.BitsPerPixel)
		if f.refuse != nil {
			return f.refuse
		}
		switch {
		case want.BitsPerPixel != 16:
			f.mode = want
		case f.select16 != nil:
			f.mode = f.select16(want)
		default:
			f.mode = rgb565
		}
	default:
		return unix.ENOTTY
	}
	return nil
}

func TestConfigure(t *testing.T) {
	tests := []struct {
		Name   string
		Driver fakeDriver
		Err    error
		Puts   []uint32
		Set    bool
	}{
		{"keeps 16 bits", fakeDriver{mode: rgb565}, nil, nil, false},
		{"switches from 32 bits", fakeDriver{mode: xrgb8888}, nil, []uint32{16}, true},
		{"refused", fakeDriver{mode: xrgb8888, refuse: unix.EINVAL}, ErrConfigure, []uint32{16}, false},
		{"driver picks 24 bits", fakeDriver{mode: xrgb8888, select16: func(want linuxVarScreenInfo) linuxVarScreenInfo {
			want.BitsPerPixel = 24
			return want
		}}, ErrConfigure, []uint32{16}, true},
		{"bgr565", fakeDriver{mode: linuxVarScreenInfo{
			BitsPerPixel: 16,
			Red:          linuxBitField{Offset: 0, Length: 5},
			Green:        linuxBitField{Offset: 5, Length: 6},
			Blue:         linuxBitField{Offset: 11, Length: 5},
		}}, ErrConfigure, nil, false},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			driver := test.Driver
			d := &linuxDevice{path: "fake", request: driver.request}
			if err := d.request(d.fd, fbioGetVScreenInfo, unsafe.Pointer(&d.screenInfo)); err != nil {
				it.Fatal(err)
			}
			d.origInfo = d.screenInfo

			err := d.configure()
			if test.Err == nil && err != nil {
				it.Fatalf("expected no error, got %v", err)
			} else if !errors.Is(err, test.Err) {
				it.Fatalf("expected %v, got %v", test.Err, err)
			}
			if diff := cmp.Diff(test.Puts, driver.puts); diff != "" {
				it.Errorf("unexpected mode changes (-want +got):\n%s", diff)
			}
			if d.modeSet != test.Set {
				it.Errorf("expected mode set %t, got %t", test.Set, d.modeSet)
			}
			if test.Err == nil && d.screenInfo.BitsPerPixel != 16 {
				it.Errorf("expected 16 bits per pixel, got %d", d.screenInfo.BitsPerPixel)
			}
		})
	}
}

func TestCloseRestoresMode(t *testing.T) {
	for _, restore := range []bool{false, true} {
		driver := &fakeDriver{mode: xrgb8888}
		d := &linuxDevice{path: "fake", request: driver.request}
		d.screenInfo, d.origInfo = driver.mode, driver.mode
		if err := d.configure(); err != nil {
			t.Fatal(err)
		}

		if err := d.close(restore); err != nil {
			t.Fatalf("restore %t: %v", restore, err)
		}
		want := uint32(16)
		if restore {
			want = 32
		}
		if v := driver.mode.BitsPerPixel; v != want {
			t.Errorf("restore %t: expected %d bits per pixel after close, got %d", restore, want, v)
		}
		if !restore {
			continue
		}

		// Closing again does not touch the mode.
		puts := len(driver.puts)
		if err := d.close(true); err != nil {
			t.Fatal(err)
		}
		if len(driver.puts) != puts {
			t.Errorf("expected no further mode changes, got %v", driver.puts)
		}
	}
}

func TestCloseRestoreFailure(t *testing.T) {
	driver := &fakeDriver{mode: xrgb8888}
	d := &linuxDevice{path: "fake", request: driver.request}
	d.screenInfo, d.origInfo = driver.mode, driver.mode
	if err := d.configure(); err != nil {
		t.Fatal(err)
	}

	driver.refuse = unix.EBUSY
	err := d.close(true)
	if !errors.Is(err, ErrConfigure) || !errors.Is(err, unix.EBUSY) {
		t.Errorf("expected ErrConfigure caused by EBUSY, got %v", err)
	}
}
