// Package story composes the 1080x1920 PNG frames exported as social
// stories. Rendering never fails outward: any problem degrades to a
// gradient placeholder so the user always receives a plausible image.
package story

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/providers/background"
)

const (
	// SlideWidth and SlideHeight are the fixed story frame dimensions.
	SlideWidth  = 1080
	SlideHeight = 1920

	fetchTimeout = 10 * time.Second
	maxImageSize = 24 << 20
)

// SlideData carries everything needed to compose one frame.
type SlideData struct {
	Slide      background.SlideType
	City       string
	Title      string
	DayNumber  int
	Day        *domain.Day
	TotalDays  int
	Background string // URL or data URL from the resolver
}

// Renderer draws story slides.
type Renderer struct {
	httpClient *http.Client
	fontPath   string
	logger     zerolog.Logger
}

// RendererOptions configures a Renderer. FontPath is optional: without it
// text falls back to the built-in bitmap face, which keeps tests and bare
// deployments working.
type RendererOptions struct {
	HTTPClient *http.Client
	FontPath   string
	Logger     zerolog.Logger
}

func NewRenderer(opts RendererOptions) *Renderer {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}
	return &Renderer{
		httpClient: httpClient,
		fontPath:   opts.FontPath,
		logger:     opts.Logger,
	}
}

// Render composes the slide and always returns a PNG. Background fetch or
// draw problems degrade to the gradient placeholder; only a failure to
// encode even that propagates as an error.
func (r *Renderer) Render(ctx context.Context, data SlideData) ([]byte, error) {
	img, err := r.compose(ctx, data)
	if err != nil {
		r.logger.Warn().Err(err).Str("city", data.City).Str("slide", string(data.Slide)).
			Str("reason", "render_failure").Msg("slide composition failed, serving placeholder")
		return r.Placeholder(data.City, placeholderLabel(data))
	}
	return img, nil
}

// Placeholder renders the minimal gradient-plus-label frame. It is also the
// last line of the degradation path, so it touches nothing external.
func (r *Renderer) Placeholder(city, label string) ([]byte, error) {
	dc := gg.NewContext(SlideWidth, SlideHeight)
	dc.SetFillStyle(gradientFor(city, SlideWidth, SlideHeight))
	dc.DrawRectangle(0, 0, SlideWidth, SlideHeight)
	dc.Fill()

	r.loadFont(dc, 96)
	dc.SetRGB(1, 1, 1)
	if label == "" {
		label = city
	}
	dc.DrawStringWrapped(label, SlideWidth/2, SlideHeight/2, 0.5, 0.5, SlideWidth-160, 1.4, gg.AlignCenter)

	return encodePNG(dc)
}

func (r *Renderer) compose(ctx context.Context, data SlideData) ([]byte, error) {
	dc := gg.NewContext(SlideWidth, SlideHeight)

	bg, err := r.fetchBackground(ctx, data.Background)
	if err != nil {
		return nil, err
	}
	drawCover(dc, bg)
	drawScrim(dc)

	switch data.Slide {
	case background.SlideDay:
		r.drawDaySlide(dc, data)
	case background.SlideSummary:
		r.drawSummarySlide(dc, data)
	default:
		r.drawCoverSlide(dc, data)
	}

	r.loadFont(dc, 36)
	dc.SetRGBA(1, 1, 1, 0.7)
	dc.DrawStringAnchored("made with tripstories", SlideWidth/2, SlideHeight-80, 0.5, 0.5)

	return encodePNG(dc)
}

func (r *Renderer) drawCoverSlide(dc *gg.Context, data SlideData) {
	r.loadFont(dc, 120)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringWrapped(data.City, SlideWidth/2, SlideHeight*0.42, 0.5, 0.5, SlideWidth-160, 1.2, gg.AlignCenter)

	if data.Title != "" {
		r.loadFont(dc, 56)
		dc.SetRGBA(1, 1, 1, 0.9)
		dc.DrawStringWrapped(data.Title, SlideWidth/2, SlideHeight*0.55, 0.5, 0.5, SlideWidth-200, 1.3, gg.AlignCenter)
	}
}

func (r *Renderer) drawDaySlide(dc *gg.Context, data SlideData) {
	r.loadFont(dc, 88)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(fmt.Sprintf("Day %d", data.DayNumber), SlideWidth/2, 280, 0.5, 0.5)

	if data.Day != nil && data.Day.Title != "" {
		r.loadFont(dc, 52)
		dc.SetRGBA(1, 1, 1, 0.9)
		dc.DrawStringWrapped(data.Day.Title, SlideWidth/2, 400, 0.5, 0.5, SlideWidth-200, 1.3, gg.AlignCenter)
	}

	if data.Day != nil {
		r.loadFont(dc, 44)
		y := 560.0
		for i, act := range data.Day.Activities {
			if i >= 6 || y > SlideHeight-300 {
				break
			}
			line := act.Description
			if act.Time != "" {
				line = act.Time + "  ·  " + line
			}
			dc.SetRGBA(1, 1, 1, 0.95)
			dc.DrawStringWrapped(line, 120, y, 0, 0, SlideWidth-240, 1.3, gg.AlignLeft)
			y += 180
		}
	}
}

func (r *Renderer) drawSummarySlide(dc *gg.Context, data SlideData) {
	r.loadFont(dc, 96)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringWrapped(fmt.Sprintf("%d days in %s", data.TotalDays, data.City),
		SlideWidth/2, SlideHeight*0.45, 0.5, 0.5, SlideWidth-160, 1.3, gg.AlignCenter)

	r.loadFont(dc, 52)
	dc.SetRGBA(1, 1, 1, 0.85)
	dc.DrawStringAnchored("until next time", SlideWidth/2, SlideHeight*0.58, 0.5, 0.5)
}

// fetchBackground resolves the slide background from a data URL or remote
// URL. An empty background is an error so Render degrades to the gradient.
func (r *Renderer) fetchBackground(ctx context.Context, src string) (image.Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("no background source")
	}
	if strings.HasPrefix(src, "data:") {
		return decodeDataURL(src)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build background request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch background: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch background: status %d", resp.StatusCode)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("decode background: %w", err)
	}
	return img, nil
}

func decodeDataURL(src string) (image.Image, error) {
	idx := strings.Index(src, ",")
	if idx < 0 {
		return nil, fmt.Errorf("malformed data url")
	}
	raw, err := base64.StdEncoding.DecodeString(src[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode inline image: %w", err)
	}
	return img, nil
}

// drawCover scales the image to fill the frame, cropping overflow.
func drawCover(dc *gg.Context, img image.Image) {
	bounds := img.Bounds()
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	scale := SlideWidth / iw
	if other := SlideHeight / ih; other > scale {
		scale = other
	}
	dc.Push()
	dc.Translate((SlideWidth-scale*iw)/2, (SlideHeight-scale*ih)/2)
	dc.Scale(scale, scale)
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

// drawScrim darkens the lower two thirds so white text stays legible.
func drawScrim(dc *gg.Context) {
	scrim := gg.NewLinearGradient(0, SlideHeight*0.25, 0, SlideHeight)
	scrim.AddColorStop(0, rgbaColor{0, 0, 0, 0})
	scrim.AddColorStop(1, rgbaColor{0, 0, 0, 0.75})
	dc.SetFillStyle(scrim)
	dc.DrawRectangle(0, 0, SlideWidth, SlideHeight)
	dc.Fill()
}

type rgbaColor struct{ r, g, b, a float64 }

func (c rgbaColor) RGBA() (uint32, uint32, uint32, uint32) {
	return uint32(c.r * c.a * 65535), uint32(c.g * c.a * 65535), uint32(c.b * c.a * 65535), uint32(c.a * 65535)
}

func (r *Renderer) loadFont(dc *gg.Context, points float64) {
	if r.fontPath == "" {
		return
	}
	if err := dc.LoadFontFace(r.fontPath, points); err != nil {
		r.logger.Debug().Err(err).Str("font", r.fontPath).Msg("font load failed, using built-in face")
	}
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func placeholderLabel(data SlideData) string {
	switch data.Slide {
	case background.SlideDay:
		return fmt.Sprintf("%s, Day %d", data.City, data.DayNumber)
	case background.SlideSummary:
		return fmt.Sprintf("%s recap", data.City)
	default:
		return data.City
	}
}
