// Package framebuffer manages a Linux framebuffer device (fbdev) as a pair of
// 16-bit 5-6-5 drawing surfaces.
//
// The device is opened with [Open], which reads the display geometry, maps the
// display memory and, in buffered mode, allocates an off-screen shadow surface of
// the same size. Drawing goes to [Framebuffer.Target]; [Framebuffer.Present]
// copies the shadow onto the display.
//
// A Framebuffer is not safe for concurrent use.
package framebuffer

import (
	"errors"
	"fmt"

	"github.com/BeatGlow/pitft/internal/logger"
	"github.com/BeatGlow/pitft/pixel"
)

// Errors
var (
	ErrOpen         = errors.New("framebuffer: error opening device")
	ErrQuery        = errors.New("framebuffer: error retrieving screen info")
	ErrConfigure    = errors.New("framebuffer: error configuring display mode")
	ErrMap          = errors.New("framebuffer: error during memory mapping")
	ErrAlloc        = errors.New("framebuffer: error allocating buffer")
	ErrSurface      = errors.New("framebuffer: error creating surface")
	ErrClosed       = errors.New("framebuffer: closed")
	ErrNotSupported = errors.New("framebuffer: not supported")
)

// Error describes a failed device operation. It matches both its Kind and the
// underlying cause with [errors.Is].
type Error struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s %s", e.Kind, e.Op, e.Path)
	}
	return fmt.Sprintf("%v: %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Config is the framebuffer configuration.
type Config struct {
	// Buffered draws to an off-screen shadow surface that is copied to the display
	// by Present.
	Buffered bool

	// RestoreMode puts back the original display mode on Close, if Open had to
	// change it.
	RestoreMode bool
}

// DefaultConfig is used when Open is called with a nil config.
var DefaultConfig = Config{
	RestoreMode: true,
}

// Geometry is the display geometry reported by the device.
type Geometry struct {
	// ID is the driver identification string, e.g. "fb_ili9340".
	ID string

	// Width and Height of the visible area in pixels.
	Width  int
	Height int

	// BitsPerPixel is the pixel depth, always 16 after Open succeeds.
	BitsPerPixel int

	// Stride is the number of bytes between vertically adjacent pixels.
	Stride int

	// Size is the length of the display memory in bytes.
	Size int
}

// Framebuffer owns the display memory and the surfaces drawing into it.
type Framebuffer struct {
	geometry Geometry
	pix      []byte
	screen   *pixel.CRGB16Image
	shadow   *pixel.CRGB16Image

	// release unmaps the display memory and closes the device.
	release func() error
	closed  bool
}

// NewMemory returns a framebuffer whose display memory is an ordinary heap
// buffer, for rendering without a device.
func NewMemory(width, height int, buffered bool) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, &Error{Op: "alloc", Path: "memory", Kind: ErrAlloc,
			Err: fmt.Errorf("invalid size %dx%d", width, height)}
	}
	if width > maxShadowSize/2/height {
		return nil, &Error{Op: "alloc", Path: "memory", Kind: ErrAlloc,
			Err: fmt.Errorf("size %dx%d exceeds %d bytes", width, height, maxShadowSize)}
	}
	geometry := Geometry{
		ID:           "memory",
		Width:        width,
		Height:       height,
		BitsPerPixel: 16,
		Stride:       width * 2,
		Size:         width * 2 * height,
	}
	return newFramebuffer("memory", geometry, make([]byte, geometry.Size), buffered, nil)
}

// newFramebuffer wraps pix in surfaces. On error the caller still owns pix.
func newFramebuffer(path string, geometry Geometry, pix []byte, buffered bool, release func() error) (*Framebuffer, error) {
	fb := &Framebuffer{
		geometry: geometry,
		pix:      pix,
		release:  release,
	}

	var err error
	if fb.screen, err = pixel.WrapCRGB16Image(pix, geometry.Width, geometry.Height, geometry.Stride, nil); err != nil {
		return nil, &Error{Op: "wrap screen", Path: path, Kind: ErrSurface, Err: err}
	}

	if buffered {
		var shadow []byte
		if shadow, err = allocShadow(geometry.Size); err != nil {
			return nil, &Error{Op: "alloc", Path: path, Kind: ErrAlloc, Err: err}
		}
		if fb.shadow, err = pixel.WrapCRGB16Image(shadow, geometry.Width, geometry.Height, geometry.Stride, nil); err != nil {
			return nil, &Error{Op: "wrap shadow", Path: path, Kind: ErrSurface, Err: err}
		}
	}

	logger.Get().Debug("framebuffer ready",
		"path", path,
		"id", geometry.ID,
		"width", geometry.Width,
		"height", geometry.Height,
		"stride", geometry.Stride,
		"size", geometry.Size,
		"buffered", buffered)
	return fb, nil
}

// maxShadowSize caps heap allocated buffers and guards against drivers
// reporting nonsense memory sizes.
const maxShadowSize = 1 << 30

func allocShadow(size int) ([]byte, error) {
	if size <= 0 || size > maxShadowSize {
		return nil, fmt.Errorf("unusable buffer size %d", size)
	}
	return make([]byte, size), nil
}

// Geometry returns the display geometry.
func (fb *Framebuffer) Geometry() Geometry {
	return fb.geometry
}

// Pix returns the display memory. Writes show up on the display immediately.
//
// The slice must not be used after Close.
func (fb *Framebuffer) Pix() []byte {
	return fb.pix
}

// Buffered reports whether drawing goes to a shadow surface.
func (fb *Framebuffer) Buffered() bool {
	return fb.shadow != nil
}

// Screen returns the surface backed by display memory.
func (fb *Framebuffer) Screen() *pixel.CRGB16Image {
	return fb.screen
}

// Shadow returns the off-screen surface, or nil when not buffered.
func (fb *Framebuffer) Shadow() *pixel.CRGB16Image {
	return fb.shadow
}

// Target returns the surface drawing operations should use.
func (fb *Framebuffer) Target() *pixel.CRGB16Image {
	if fb.shadow != nil {
		return fb.shadow
	}
	return fb.screen
}

// Present copies the shadow surface onto the display. It does nothing when
// not buffered.
func (fb *Framebuffer) Present() error {
	if fb.closed {
		return ErrClosed
	}
	if fb.shadow == nil {
		return nil
	}
	copy(fb.screen.Pix, fb.shadow.Pix)
	return nil
}

// Close releases the surfaces, the display memory and the device.
//
// The surfaces are dropped before the memory backing them is unmapped, so no
// surface ever refers to released memory.
func (fb *Framebuffer) Close() error {
	if fb.closed {
		return ErrClosed
	}
	fb.closed = true
	fb.screen = nil
	fb.shadow = nil
	fb.pix = nil

	if fb.release == nil {
		return nil
	}
	err := fb.release()
	fb.release = nil
	logger.Get().Debug("framebuffer closed", "id", fb.geometry.ID, "error", err)
	return err
}
