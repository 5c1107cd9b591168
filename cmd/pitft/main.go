// Command pitft draws on a Linux framebuffer from the command line.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/pitft"
	"github.com/BeatGlow/pitft/framebuffer"
)

// memoryDevice selects an in-memory framebuffer instead of a device.
const memoryDevice = "mem"

var rootCmd = &cobra.Command{
	Use:          filepath.Base(os.Args[0]),
	Short:        "pitft draws on a Linux framebuffer",
	Long:         "pitft draws shapes, text and images on a Linux framebuffer such as a PiTFT display",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

var (
	deviceFlag      string
	bufferedFlag    bool
	restoreModeFlag bool
	backlightFlag   string
	workDirFlag     string
	sizeFlag        string
	outputFlag      string
	colorFlag       string
	debugFlag       bool
)

func init() {
	cobra.EnablePrefixMatching = true
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&deviceFlag, `device`, pitft.DefaultDevice, `framebuffer device, or "`+memoryDevice+`" to render in memory`)
	flags.BoolVar(&bufferedFlag, `buffered`, false, `draw off-screen and blit when done`)
	flags.BoolVar(&restoreModeFlag, `restore-mode`, true, `restore the original display mode on exit`)
	flags.StringVar(&backlightFlag, `backlight`, ``, `backlight GPIO pin (e.g. GPIO18)`)
	flags.StringVar(&workDirFlag, `workdir`, ``, `directory image paths are relative to`)
	flags.StringVar(&sizeFlag, `size`, `320x240`, `size of the in-memory framebuffer`)
	flags.StringVarP(&outputFlag, `output`, `o`, ``, `save the display memory as PNG`)
	flags.StringVarP(&colorFlag, `color`, `c`, `1,1,1`, `paint color as r,g,b in [0,1]`)
	flags.BoolVar(&debugFlag, `debug`, false, `debug logging and error stacks`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run calls fn and reports its error, with a stack trace in debug mode.
func run(fn func() error) {
	if debugFlag {
		pitft.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if err := fn(); err != nil {
		if stackFramer, ok := err.(interface{ ErrorStack() string }); debugFlag && ok {
			fmt.Fprintln(os.Stderr, stackFramer.ErrorStack())
		}
		log.Fatal(err)
	}
}

// withScreen opens the screen, applies the color flag, calls fn, then blits,
// saves the output and closes the screen.
func withScreen(fn func(*pitft.Screen) error) (err error) {
	s, err := openScreen()
	if err != nil {
		return err
	}
	defer closeScreen(s, &err)

	r, g, b, err := parseColor(colorFlag)
	if err != nil {
		return err
	}
	s.SetColor(r, g, b)

	if err = fn(s); err != nil {
		return errors.Wrap(err, 1)
	}
	if err = s.Blit(); err != nil {
		return errors.Wrap(err, 1)
	}
	return save(s)
}

// closeScreen closes s and adds a failure to *err, so that teardown errors
// such as a failed mode restore are reported.
func closeScreen(s *pitft.Screen, err *error) {
	cerr := s.Close()
	switch {
	case cerr == nil:
	case *err == nil:
		*err = errors.Wrap(cerr, 1)
	default:
		*err = fmt.Errorf("%w; close: %w", *err, cerr)
	}
}

func openScreen() (*pitft.Screen, error) {
	config := &pitft.Config{
		Device:      deviceFlag,
		WorkDir:     workDirFlag,
		Buffered:    bufferedFlag,
		RestoreMode: restoreModeFlag,
	}

	if backlightFlag != "" {
		if _, err := host.Init(); err != nil {
			return nil, errors.Wrap(err, 0)
		}
		var pin gpio.PinOut = gpioreg.ByName(backlightFlag)
		if pin == nil {
			return nil, errors.Errorf("unknown backlight pin %q", backlightFlag)
		}
		config.Backlight = pin
	}

	if deviceFlag != memoryDevice {
		s, err := pitft.Open(config)
		if err != nil {
			return nil, errors.Wrap(err, 0)
		}
		return s, nil
	}

	w, h, err := parseSize(sizeFlag)
	if err != nil {
		return nil, err
	}
	fb, err := framebuffer.NewMemory(w, h, bufferedFlag)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return pitft.New(fb, config), nil
}

func save(s *pitft.Screen) error {
	if outputFlag == "" {
		return nil
	}
	if err := gg.SavePNG(outputFlag, s.Framebuffer().Screen()); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func parseSize(size string) (w, h int, err error) {
	parts := strings.SplitN(size, `x`, 2)
	if len(parts) != 2 {
		return 0, 0, errors.Errorf(`size %q not "<w>x<h>"`, size)
	}
	if w, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, errors.Wrap(err, 0)
	}
	if h, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, errors.Wrap(err, 0)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, errors.Errorf("invalid size %dx%d", w, h)
	}
	return w, h, nil
}

func parseColor(value string) (r, g, b float64, err error) {
	parts := strings.Split(value, `,`)
	if len(parts) != 3 {
		return 0, 0, 0, errors.Errorf(`color %q not "<r>,<g>,<b>"`, value)
	}
	v, err := parseFloats(parts)
	if err != nil {
		return 0, 0, 0, err
	}
	return v[0], v[1], v[2], nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return nil, errors.Wrap(err, 0)
		}
		out[i] = v
	}
	return out, nil
}
