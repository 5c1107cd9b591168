package pitft

import (
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/BeatGlow/pitft/internal/logger"
)

// ImagePath returns the absolute path an image name resolves to.
func (s *Screen) ImagePath(name string) (string, error) {
	return filepath.Abs(filepath.Join(s.workDir, name))
}

// Image draws the PNG file name, relative to the working directory, with its
// top left corner at (x,y). The paint state is not used. Nothing is drawn if
// the file cannot be decoded.
func (s *Screen) Image(x, y float64, name string) error {
	if s.closed {
		return ErrClosed
	}
	path, err := s.ImagePath(name)
	if err != nil {
		return &ImageError{Path: name, Err: err}
	}
	img, err := gg.LoadPNG(path)
	if err != nil {
		return &ImageError{Path: path, Err: err}
	}
	logger.Get().Debug("image loaded", "path", path, "bounds", img.Bounds())

	c, err := s.context()
	if err != nil {
		return err
	}
	defer c.Close()

	c.DrawImage(img, x, y)
	return nil
}
