package render

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// FontProvider yields a renderable face for a point size, or reports that
// its font is unavailable. Providers never panic past their boundary.
type FontProvider interface {
	Face(points float64) (font.Face, error)
}

// fileFont loads the first parseable font from a list of file paths. The
// file is read and parsed once; faces at different sizes share the parsed
// font.
type fileFont struct {
	paths []string

	once sync.Once
	fnt  *opentype.Font
	err  error
}

func (f *fileFont) Face(points float64) (font.Face, error) {
	f.once.Do(func() {
		for _, path := range f.paths {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			fnt, err := opentype.Parse(data)
			if err != nil {
				continue
			}
			f.fnt = fnt
			return
		}
		f.err = fmt.Errorf("no usable font among %d candidate paths", len(f.paths))
	})
	if f.err != nil {
		return nil, f.err
	}
	return opentype.NewFace(f.fnt, &opentype.FaceOptions{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// builtinFont is the guaranteed terminal provider. It ignores the requested
// size; the bitmap face is always available.
type builtinFont struct{}

func (builtinFont) Face(float64) (font.Face, error) {
	return basicfont.Face7x13, nil
}

// FontSet resolves the three font roles the receipt needs. Each role is a
// prioritised provider chain ending in the builtin face, so lookups always
// succeed.
type FontSet struct {
	mono []FontProvider
	bold []FontProvider
	logo []FontProvider

	logger zerolog.Logger
}

// NewFontSet builds a font set from the usual system font locations.
func NewFontSet(logger zerolog.Logger) *FontSet {
	return &FontSet{
		mono: []FontProvider{
			&fileFont{paths: []string{
				"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
				"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
				"/usr/share/fonts/TTF/DejaVuSansMono.ttf",
			}},
			builtinFont{},
		},
		bold: []FontProvider{
			&fileFont{paths: []string{
				"/usr/share/fonts/truetype/liberation/LiberationMono-Bold.ttf",
				"/usr/share/fonts/truetype/dejavu/DejaVuSansMono-Bold.ttf",
				"/usr/share/fonts/TTF/DejaVuSansMono-Bold.ttf",
			}},
			builtinFont{},
		},
		logo: []FontProvider{
			&fileFont{paths: []string{
				"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
				"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
				"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
			}},
			builtinFont{},
		},
		logger: logger.With().Str("component", "fonts").Logger(),
	}
}

// Mono returns the body face at the given size.
func (fs *FontSet) Mono(points float64) font.Face {
	return fs.face(fs.mono, points)
}

// Bold returns the emphasis face at the given size.
func (fs *FontSet) Bold(points float64) font.Face {
	return fs.face(fs.bold, points)
}

// Logo returns the wordmark face at the given size.
func (fs *FontSet) Logo(points float64) font.Face {
	return fs.face(fs.logo, points)
}

func (fs *FontSet) face(chain []FontProvider, points float64) font.Face {
	for _, p := range chain {
		face, err := p.Face(points)
		if err == nil {
			return face
		}
		fs.logger.Debug().Err(err).Msg("font provider unavailable, trying next")
	}
	// The chains end in builtinFont, which cannot fail.
	return basicfont.Face7x13
}
