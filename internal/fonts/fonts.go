// Package fonts resolves font family names to parsed TrueType fonts.
package fonts

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/golang/freetype/truetype"
	"github.com/rkoesters/xdg/basedir"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/BeatGlow/pitft/internal/logger"
)

// ErrNotFound is returned if no font file matches a family.
var ErrNotFound = errors.New("fonts: font not found")

// Extension of the font files considered.
const Extension = ".ttf"

var (
	goRegular = sync.OnceValue(func() *truetype.Font { return mustParse(goregular.TTF) })
	goBold    = sync.OnceValue(func() *truetype.Font { return mustParse(gobold.TTF) })
)

func mustParse(b []byte) *truetype.Font {
	f, err := truetype.Parse(b)
	if err != nil {
		panic(err)
	}
	return f
}

// Default returns the embedded Go Regular or Go Bold font.
func Default(bold bool) *truetype.Font {
	if bold {
		return goBold()
	}
	return goRegular()
}

// SystemDirs returns the directories searched for fonts, most specific first.
func SystemDirs() []string {
	dirs := []string{filepath.Join(basedir.DataHome, "fonts")}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".fonts"))
	}
	for _, dir := range basedir.DataDirs {
		dirs = append(dirs, filepath.Join(dir, "fonts"))
	}
	return append(dirs, "/usr/share/fonts", "/usr/local/share/fonts")
}

// Resolver finds font files by family name. Files are matched on their base
// name, ignoring case and punctuation, so "DejaVu Sans" matches
// DejaVuSans.ttf and "dejavu sans" with bold matches DejaVuSans-Bold.ttf.
//
// The directory index is built on first use. A Resolver is not safe for
// concurrent use.
type Resolver struct {
	dirs  []string
	index map[string]string
	cache map[string]*truetype.Font
}

// New returns a resolver searching dirs before the system directories.
func New(dirs ...string) *Resolver {
	return &Resolver{
		dirs:  append(append([]string(nil), dirs...), SystemDirs()...),
		cache: make(map[string]*truetype.Font),
	}
}

// NewWithDirs returns a resolver searching only dirs.
func NewWithDirs(dirs ...string) *Resolver {
	return &Resolver{
		dirs:  append([]string(nil), dirs...),
		cache: make(map[string]*truetype.Font),
	}
}

// Dirs returns the search directories in order.
func (r *Resolver) Dirs() []string {
	return append([]string(nil), r.dirs...)
}

// Rescan drops the directory index so the next lookup walks the directories again.
func (r *Resolver) Rescan() {
	r.index = nil
}

// Find returns the font for a family and weight. A bold lookup that has no
// bold file falls back to the regular file of the same family.
func (r *Resolver) Find(family string, bold bool) (*truetype.Font, error) {
	name := Normalize(family)
	if name == "" {
		return nil, ErrNotFound
	}
	if r.index == nil {
		r.scan()
	}

	var candidates []string
	if bold {
		candidates = append(candidates, name+"bold", name+"bd")
	}
	candidates = append(candidates, name, name+"regular", name+"book", name+"roman")

	for i, candidate := range candidates {
		path, ok := r.index[candidate]
		if !ok {
			continue
		}
		f, err := r.load(path)
		if err != nil {
			logger.Get().Debug("font unusable", "path", path, "error", err)
			continue
		}
		if bold && i >= 2 {
			logger.Get().Debug("no bold font, using regular", "family", family, "path", path)
		}
		return f, nil
	}
	return nil, ErrNotFound
}

func (r *Resolver) load(path string) (*truetype.Font, error) {
	if f, ok := r.cache[path]; ok {
		return f, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(b)
	if err != nil {
		return nil, err
	}
	r.cache[path] = f
	return f, nil
}

// scan indexes the font files below every search directory. The first file
// seen for a name wins.
func (r *Resolver) scan() {
	r.index = make(map[string]string)
	for _, dir := range r.dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d == nil || d.IsDir() {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), Extension) {
				return nil
			}
			name := Normalize(strings.TrimSuffix(d.Name(), filepath.Ext(path)))
			if _, dup := r.index[name]; !dup && name != "" {
				r.index[name] = path
			}
			return nil
		})
	}
	logger.Get().Debug("indexed fonts", "dirs", len(r.dirs), "files", len(r.index))
}

// Normalize lower cases s and strips everything but letters and digits.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
