package render

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// LogoProvider produces a wordmark image at the requested pixel size, or
// reports that its asset is unavailable. Providers are tried in order and
// the first success wins; the chain ends in a provider that cannot fail.
type LogoProvider interface {
	Logo(ctx context.Context, width, height int) (image.Image, error)
}

// svgLogo fetches a remote SVG asset and rasterises it. Network or decode
// failures are reported as unavailable, never raised further.
type svgLogo struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewSVGLogo creates a remote SVG logo provider. The fetch carries its own
// short timeout so a slow asset host degrades to the local fallback instead
// of stalling the render.
func NewSVGLogo(url string, logger zerolog.Logger) LogoProvider {
	return &svgLogo{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.With().Str("component", "logo").Logger(),
	}
}

func (p *svgLogo) Logo(ctx context.Context, width, height int) (image.Image, error) {
	if p.url == "" {
		return nil, fmt.Errorf("no logo URL configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build logo request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn().Err(err).Str("url", p.url).Msg("logo fetch failed, falling back")
		return nil, fmt.Errorf("failed to fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn().Int("status", resp.StatusCode).Str("url", p.url).Msg("logo fetch failed, falling back")
		return nil, fmt.Errorf("logo fetch returned status %d", resp.StatusCode)
	}

	icon, err := oksvg.ReadIconStream(resp.Body)
	if err != nil {
		p.logger.Warn().Err(err).Str("url", p.url).Msg("logo decode failed, falling back")
		return nil, fmt.Errorf("failed to decode logo SVG: %w", err)
	}

	icon.SetTarget(0, 0, float64(width), float64(height))
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	return rgba, nil
}

// wordmarkLogo draws the store wordmark with the boldest available font.
// Font lookup falls back internally, so this provider always succeeds.
type wordmarkLogo struct {
	text  string
	fonts *FontSet
}

// NewWordmarkLogo creates a locally drawn wordmark provider.
func NewWordmarkLogo(text string, fonts *FontSet) LogoProvider {
	return &wordmarkLogo{text: text, fonts: fonts}
}

func (p *wordmarkLogo) Logo(_ context.Context, width, height int) (image.Image, error) {
	dc := gg.NewContext(width, height)
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(p.fonts.Logo(float64(height) * 0.65))

	w, h := dc.MeasureString(p.text)
	x := (float64(width) - w) / 2
	y := (float64(height) + h) / 2
	dc.DrawString(p.text, x, y)

	// Thin underline, as on the printed original.
	dc.SetLineWidth(float64(height) / 24)
	dc.DrawLine(x, y+h*0.25, x+w, y+h*0.25)
	dc.Stroke()

	return dc.Image(), nil
}
