package story

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server/internal/domain"
	"server/internal/providers/background"
)

func decodeSlide(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err, "slide must be valid PNG")
	return img
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPlaceholderIsAlwaysFullSizePNG(t *testing.T) {
	r := NewRenderer(RendererOptions{Logger: zerolog.Nop()})

	data, err := r.Placeholder("Seoul", "Seoul")
	require.NoError(t, err)

	img := decodeSlide(t, data)
	assert.Equal(t, SlideWidth, img.Bounds().Dx())
	assert.Equal(t, SlideHeight, img.Bounds().Dy())
}

func TestRenderDegradesToPlaceholderOnMissingBackground(t *testing.T) {
	r := NewRenderer(RendererOptions{Logger: zerolog.Nop()})

	data, err := r.Render(context.Background(), SlideData{Slide: background.SlideCover, City: "Oslo"})
	require.NoError(t, err)
	decodeSlide(t, data)
}

func TestRenderDegradesToPlaceholderOnFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	r := NewRenderer(RendererOptions{Logger: zerolog.Nop()})
	data, err := r.Render(context.Background(), SlideData{
		Slide:      background.SlideDay,
		City:       "Oslo",
		DayNumber:  2,
		Background: server.URL + "/missing.jpg",
	})
	require.NoError(t, err)
	decodeSlide(t, data)
}

func TestRenderComposesRemoteBackground(t *testing.T) {
	payload := smallPNG(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	r := NewRenderer(RendererOptions{Logger: zerolog.Nop()})
	data, err := r.Render(context.Background(), SlideData{
		Slide:      background.SlideCover,
		City:       "Tokyo",
		Title:      "5 Days in Tokyo",
		Background: server.URL + "/bg.png",
	})
	require.NoError(t, err)

	img := decodeSlide(t, data)
	assert.Equal(t, SlideWidth, img.Bounds().Dx())
	assert.Equal(t, SlideHeight, img.Bounds().Dy())
}

func TestRenderComposesInlineDataURL(t *testing.T) {
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(smallPNG(t))

	r := NewRenderer(RendererOptions{Logger: zerolog.Nop()})
	data, err := r.Render(context.Background(), SlideData{
		Slide:     background.SlideDay,
		City:      "Tokyo",
		DayNumber: 1,
		Day: &domain.Day{Number: 1, Title: "Temples", Activities: []domain.Activity{
			{Time: "9:00 AM", Description: "Senso-ji"},
			{Description: "Ramen lunch"},
		}},
		Background: src,
	})
	require.NoError(t, err)
	decodeSlide(t, data)
}

func TestCacheKeyShapes(t *testing.T) {
	assert.Equal(t, "itineraries/abc/cover", CacheKey("abc", background.SlideCover, 0))
	assert.Equal(t, "itineraries/abc/day-3", CacheKey("abc", background.SlideDay, 3))
	assert.Equal(t, "itineraries/abc/summary", CacheKey("abc", background.SlideSummary, 0))
}
