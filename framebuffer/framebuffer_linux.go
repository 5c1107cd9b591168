package framebuffer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/BeatGlow/pitft/internal/ioctl"
	"github.com/BeatGlow/pitft/internal/logger"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo ioctl.Command = 0x4600
	fbioPutVScreenInfo ioctl.Command = 0x4601
	fbioGetFScreenInfo ioctl.Command = 0x4602
)

type linuxDevice struct {
	f          *os.File
	fd         uintptr
	path       string
	info       linuxFixScreenInfo
	screenInfo linuxVarScreenInfo
	origInfo   linuxVarScreenInfo
	modeSet    bool
	mem        []byte

	// request issues ioctl calls, ioctl.Do outside of tests.
	request func(fd uintptr, command ioctl.Command, arg unsafe.Pointer) error
}

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
//
// The device keeps its current mode if it already runs at 16 bits per pixel;
// otherwise Open asks the driver for 16 bits per pixel and fails with
// [ErrConfigure] if it refuses or picks a layout other than RGB 5-6-5.
func Open(name string, config *Config) (fb *Framebuffer, err error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}

	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, &Error{Op: "open", Path: name, Kind: ErrOpen, Err: err}
	}

	d := &linuxDevice{
		f:       f,
		fd:      f.Fd(),
		path:    name,
		request: ioctl.Do,
	}
	defer func() {
		// Undo everything acquired so far when things go wrong.
		if err != nil {
			if cerr := d.close(true); cerr != nil {
				logger.Get().Warn("framebuffer cleanup failed", "path", name, "error", cerr)
			}
		}
	}()

	// Request virtual screen info.
	if err = d.request(d.fd, fbioGetVScreenInfo, unsafe.Pointer(&d.screenInfo)); err != nil {
		return nil, &Error{Op: "FBIOGET_VSCREENINFO", Path: name, Kind: ErrQuery, Err: err}
	}
	d.origInfo = d.screenInfo

	if err = d.configure(); err != nil {
		return nil, err
	}

	if err = d.request(d.fd, fbioGetFScreenInfo, unsafe.Pointer(&d.info)); err != nil {
		return nil, &Error{Op: "FBIOGET_FSCREENINFO", Path: name, Kind: ErrQuery, Err: err}
	}

	// Map pixel buffer.
	if d.mem, err = unix.Mmap(int(d.fd), 0, int(d.info.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED); err != nil {
		d.mem = nil
		return nil, &Error{Op: "mmap", Path: name, Kind: ErrMap, Err: err}
	}

	restore := config.RestoreMode
	if fb, err = newFramebuffer(name, d.geometry(), d.mem, config.Buffered, func() error {
		return d.close(restore)
	}); err != nil {
		return nil, err
	}
	return fb, nil
}

// configure makes sure the device runs at 16 bits per pixel in 5-6-5 layout.
func (d *linuxDevice) configure() error {
	if d.screenInfo.BitsPerPixel != 16 {
		logger.Get().Debug("framebuffer changing depth", "path", d.path, "from", d.screenInfo.BitsPerPixel, "to", 16)

		want := d.screenInfo
		want.BitsPerPixel = 16
		if err := d.request(d.fd, fbioPutVScreenInfo, unsafe.Pointer(&want)); err != nil {
			return &Error{Op: "FBIOPUT_VSCREENINFO", Path: d.path, Kind: ErrConfigure, Err: err}
		}
		d.modeSet = true

		if err := d.request(d.fd, fbioGetVScreenInfo, unsafe.Pointer(&d.screenInfo)); err != nil {
			return &Error{Op: "FBIOGET_VSCREENINFO", Path: d.path, Kind: ErrQuery, Err: err}
		}
		if d.screenInfo.BitsPerPixel != 16 {
			return &Error{Op: "FBIOPUT_VSCREENINFO", Path: d.path, Kind: ErrConfigure,
				Err: fmt.Errorf("driver selected %d bits per pixel", d.screenInfo.BitsPerPixel)}
		}
	}

	if !linuxIsRGB565(&d.screenInfo) {
		return &Error{Op: "FBIOGET_VSCREENINFO", Path: d.path, Kind: ErrConfigure,
			Err: errors.New("unsupported pixel layout, want RGB 5-6-5")}
	}
	return nil
}

func (d *linuxDevice) geometry() Geometry {
	stride := int(d.info.LineLength)
	if stride == 0 {
		stride = int(d.screenInfo.Xres) * 2
	}
	return Geometry{
		ID:           string(bytes.TrimRight(d.info.ID[:], "\x00")),
		Width:        int(d.screenInfo.Xres),
		Height:       int(d.screenInfo.Yres),
		BitsPerPixel: int(d.screenInfo.BitsPerPixel),
		Stride:       stride,
		Size:         int(d.info.SmemLen),
	}
}

// close unmaps the display memory, restores the mode if requested and closes
// the device, in that order.
func (d *linuxDevice) close(restore bool) error {
	var errs []error
	if d.mem != nil {
		if err := unix.Munmap(d.mem); err != nil {
			errs = append(errs, &Error{Op: "munmap", Path: d.path, Kind: ErrMap, Err: err})
		}
		d.mem = nil
	}
	if restore && d.modeSet {
		if err := d.request(d.fd, fbioPutVScreenInfo, unsafe.Pointer(&d.origInfo)); err != nil {
			errs = append(errs, &Error{Op: "FBIOPUT_VSCREENINFO", Path: d.path, Kind: ErrConfigure, Err: err})
		} else {
			logger.Get().Debug("framebuffer mode restored", "path", d.path, "bpp", d.origInfo.BitsPerPixel)
		}
		d.modeSet = false
	}
	if d.f != nil {
		if err := d.f.Close(); err != nil {
			errs = append(errs, err)
		}
		d.f = nil
	}
	return errors.Join(errs...)
}

type linuxFixScreenInfo struct {
	ID           [16]byte  // Identification string eg "TT Builtin"
	SmemStart    uintptr   // Start of frame buffer mem
	SmemLen      uint32    // Length of frame buffer mem
	Type         uint32    // FB_TYPE_
	TypeAux      uint32    // Interleave for interleaved Planes
	Visual       uint32    // FB_VISUAL_
	Xpanstep     uint16    // Zero if no hardware panning
	Ypanstep     uint16    // Zero if no hardware panning
	Ywrapstep    uint16    // Zero if no hardware ywrap
	LineLength   uint32    // Length of a line in bytes
	MmioStart    uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen      uint32    // Length of Memory Mapped I/O
	Accel        uint32    // Type of acceleration available
	Capabilities uint16    // FB_CAP_
	Reserved     [2]uint16 // Reserved for future compatibility
}

// linuxBitField for the color
type linuxBitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// linuxVarScreenInfo contains device independent changeable information about a frame buffer device and a specific video mode.
type linuxVarScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha linuxBitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

// linuxIsRGB565 accepts 16-bit modes whose bitfields are either unset or the
// 5-6-5 RGB layout.
func linuxIsRGB565(info *linuxVarScreenInfo) bool {
	if info.BitsPerPixel != 16 {
		return false
	}
	if info.Red.Length == 0 && info.Green.Length == 0 && info.Blue.Length == 0 {
		return true
	}
	return info.Red.Offset == 11 &&
		info.Red.Length == 5 &&
		info.Green.Offset == 5 &&
		info.Green.Length == 6 &&
		info.Blue.Offset == 0 &&
		info.Blue.Length == 5
}
