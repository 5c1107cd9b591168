// Package pitft draws onto a Linux framebuffer, such as the one of an Adafruit
// PiTFT display.
//
// A [Screen] combines a [framebuffer.Framebuffer] with a paint state, a font
// selection and a registry of reusable paint patterns. Every drawing primitive
// resolves the paint state, draws onto the active surface and returns. In
// buffered mode the active surface is off-screen and [Screen.Blit] makes it
// visible.
//
// A Screen is not safe for concurrent use.
package pitft

import (
	"log/slog"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/pitft/draw"
	"github.com/BeatGlow/pitft/framebuffer"
	"github.com/BeatGlow/pitft/internal/fonts"
	"github.com/BeatGlow/pitft/internal/logger"
)

// DefaultDevice is the framebuffer of a PiTFT on a Raspberry Pi.
const DefaultDevice = "/dev/fb1"

// Config is the screen configuration.
type Config struct {
	// Device is the framebuffer device path.
	Device string

	// WorkDir is the directory image paths are relative to. Empty means the
	// process working directory.
	WorkDir string

	// Buffered draws to an off-screen surface; see [Screen.Blit].
	Buffered bool

	// RestoreMode restores the original display mode on Close, if it had to be
	// changed to 16 bits per pixel.
	RestoreMode bool

	// Backlight pin
	Backlight gpio.PinOut

	// FontDirs are searched for fonts before the system font directories.
	FontDirs []string

	// Logger receives debug logging. Nil keeps the current package logger.
	Logger *slog.Logger
}

// DefaultConfig is used if no Config is passed.
var DefaultConfig = Config{
	Device:      DefaultDevice,
	RestoreMode: true,
}

// Screen is a drawing surface bound to a framebuffer.
type Screen struct {
	fb        *framebuffer.Framebuffer
	workDir   string
	backlight gpio.PinOut
	fonts     *fonts.Resolver
	paint     Paint
	font      Font
	patterns  []*Pattern
	closed    bool
}

// SetLogger sets the logger used by all pitft packages. Nil silences logging.
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

// Open opens the framebuffer device named in config and returns a Screen
// drawing onto it. A nil config uses [DefaultConfig].
func Open(config *Config) (*Screen, error) {
	if config == nil {
		config = &DefaultConfig
	}
	if config.Logger != nil {
		logger.Set(config.Logger)
	}
	device := config.Device
	if device == "" {
		device = DefaultDevice
	}

	fb, err := framebuffer.Open(device, &framebuffer.Config{
		Buffered:    config.Buffered,
		RestoreMode: config.RestoreMode,
	})
	if err != nil {
		return nil, err
	}
	return New(fb, config), nil
}

// New returns a Screen drawing onto fb. The Screen takes ownership of fb. The
// Device, Buffered and RestoreMode fields of config are not used; a nil config
// uses [DefaultConfig].
func New(fb *framebuffer.Framebuffer, config *Config) *Screen {
	if config == nil {
		config = &DefaultConfig
	}
	if config.Logger != nil {
		logger.Set(config.Logger)
	}
	return &Screen{
		fb:        fb,
		workDir:   config.WorkDir,
		backlight: config.Backlight,
		fonts:     fonts.New(config.FontDirs...),
		paint:     Solid{},
		font:      DefaultFont,
	}
}

// Framebuffer returns the underlying framebuffer.
func (s *Screen) Framebuffer() *framebuffer.Framebuffer {
	return s.fb
}

// Size returns the display size in pixels.
func (s *Screen) Size() (width, height int) {
	g := s.fb.Geometry()
	return g.Width, g.Height
}

// Data returns the display memory.
func (s *Screen) Data() []byte {
	return s.fb.Pix()
}

// Show toggles the backlight on or off. Without a backlight pin it does nothing.
func (s *Screen) Show(show bool) error {
	if s.backlight == nil {
		return nil
	}
	level := gpio.Low
	if show {
		level = gpio.High
	}
	return s.backlight.Out(level)
}

// SetBrightness dims the backlight with PWM. Without a backlight pin it does nothing.
func (s *Screen) SetBrightness(level uint8) error {
	if s.backlight == nil {
		return nil
	}
	const (
		step = gpio.DutyMax / 0xFF
		rate = 2 * physic.KiloHertz
	)
	logger.Get().Debug("backlight duty cycle", "duty", step*gpio.Duty(level), "rate", rate)
	return s.backlight.PWM(step*gpio.Duty(level), rate)
}

// Close destroys all patterns and releases the framebuffer.
func (s *Screen) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.patterns = nil
	return s.fb.Close()
}

// Blit copies the off-screen surface to the display. It does nothing if the
// screen is not buffered.
func (s *Screen) Blit() error {
	if s.closed {
		return ErrClosed
	}
	return s.fb.Present()
}

// context returns a paint context on the active surface.
func (s *Screen) context() (*draw.Context, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return draw.NewContext(s.fb.Target()), nil
}
