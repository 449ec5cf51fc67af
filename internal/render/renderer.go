// Package render turns receipt records into thermal-receipt style PNG
// images. Rendering never fails: missing fonts and unreachable logo assets
// degrade through fallback chains, and an unexpected drawing failure
// produces a plain image carrying the error text instead of an error.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"kassenbon/internal/model"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"
)

// Options controls the output raster.
type Options struct {
	// Width and Height are the nominal output dimensions in pixels.
	Width  int
	Height int

	// Scale is the supersampling factor. The receipt is drawn at
	// Width*Scale x Height*Scale and downsampled, which keeps the small
	// text legible. Must be at least 1; 4 is the default.
	Scale int

	// DPI is written into the PNG metadata.
	DPI int

	// LogoURL is the remote SVG wordmark. Empty disables the remote
	// provider and the drawn wordmark is used directly.
	LogoURL string
}

// DefaultOptions returns the production raster settings.
func DefaultOptions(logoURL string) Options {
	return Options{
		Width:   300,
		Height:  900,
		Scale:   4,
		DPI:     300,
		LogoURL: logoURL,
	}
}

// Renderer draws receipt records as PNG images.
type Renderer interface {
	// Render returns PNG bytes for the record. The result is always a
	// valid, non-empty PNG, even when every optional asset is missing.
	Render(ctx context.Context, rec model.ReceiptRecord) []byte
}

type renderer struct {
	opts   Options
	fonts  *FontSet
	logos  []LogoProvider
	logger zerolog.Logger
}

// New creates a renderer with the standard logo fallback chain: remote SVG
// first, then a locally drawn wordmark.
func New(opts Options, logger zerolog.Logger) Renderer {
	if opts.Scale < 1 {
		opts.Scale = 1
	}

	logger = logger.With().Str("component", "renderer").Logger()
	fonts := NewFontSet(logger)

	logos := make([]LogoProvider, 0, 2)
	if opts.LogoURL != "" {
		logos = append(logos, NewSVGLogo(opts.LogoURL, logger))
	}
	logos = append(logos, NewWordmarkLogo("REWE", fonts))

	return &renderer{
		opts:   opts,
		fonts:  fonts,
		logos:  logos,
		logger: logger,
	}
}

func (r *renderer) Render(ctx context.Context, rec model.ReceiptRecord) []byte {
	img := r.draw(ctx, rec)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		r.logger.Error().Err(err).Msg("png encoding failed")
		buf.Reset()
		_ = png.Encode(&buf, r.errorImage(err))
	}

	return withDPI(buf.Bytes(), r.opts.DPI)
}

// draw renders the receipt at the supersampled resolution and downsamples
// to the nominal size. A panic from a drawing primitive (including the
// unsupported-tax-rate contract violation in the layout) is converted into
// the degraded error image here; nothing propagates past this boundary.
func (r *renderer) draw(ctx context.Context, rec model.ReceiptRecord) (img image.Image) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error().
				Interface("panic", p).
				Str("date", rec.Date.Format("02.01.2006")).
				Msg("receipt drawing failed")
			img = r.errorImage(fmt.Errorf("%v", p))
		}
	}()

	scale := r.opts.Scale
	width := r.opts.Width * scale
	height := r.opts.Height * scale

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	margin := float64(8 * scale)
	lineHeight := float64(12 * scale)
	mono := r.fonts.Mono(float64(10 * scale))
	bold := r.fonts.Bold(float64(12 * scale))

	y := float64(16 * scale)

	// Logo block, centred at the top.
	logoW := width - 2*int(margin)
	logoH := 35 * scale
	if logo := r.logo(ctx, logoW, logoH); logo != nil {
		dc.DrawImage(logo, (width-logo.Bounds().Dx())/2, int(y))
		y += float64(logo.Bounds().Dy()) + float64(6*scale)
	}
	y += lineHeight

	for _, line := range Lines(rec) {
		if line.Text == "" {
			y += lineHeight / 2
			continue
		}

		if line.Bold {
			dc.SetFontFace(bold)
		} else {
			dc.SetFontFace(mono)
		}

		x := margin
		if line.Center {
			w, _ := dc.MeasureString(line.Text)
			x = (float64(width) - w) / 2
		}
		dc.DrawString(line.Text, x, y)
		y += lineHeight
	}

	// Downsample with a high-quality filter; rendering directly at the
	// nominal size makes the small text illegible.
	dst := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), dc.Image(), dc.Image().Bounds(), xdraw.Src, nil)
	return dst
}

// logo walks the provider chain and returns the first available wordmark.
func (r *renderer) logo(ctx context.Context, width, height int) image.Image {
	for _, p := range r.logos {
		logo, err := p.Logo(ctx, width, height)
		if err == nil {
			return logo
		}
		r.logger.Debug().Err(err).Msg("logo provider unavailable, trying next")
	}
	return nil
}

// errorImage is the degraded-but-valid output: a plain image carrying the
// failure text. The caller has no fallback of its own, so a render call
// must produce something decodable no matter what.
func (r *renderer) errorImage(err error) image.Image {
	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(r.fonts.Mono(10))
	dc.DrawStringWrapped(
		fmt.Sprintf("receipt generation failed: %v", err),
		10, 10, 0, 0, float64(r.opts.Width-20), 1.5, gg.AlignLeft,
	)
	return dc.Image()
}
