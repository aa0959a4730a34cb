// Package background sources story-slide background images for a city from
// external providers. Every provider exposes the same single-attempt
// contract so the resolver can walk them in priority order.
package background

import (
	"context"
	"fmt"
	"strings"
)

// SlideType enumerates the story frames a background can be requested for.
type SlideType string

const (
	SlideCover   SlideType = "cover"
	SlideDay     SlideType = "day"
	SlideSummary SlideType = "summary"
)

// NormalizeSlideType sanitizes free-form input into a supported slide type.
func NormalizeSlideType(s string) SlideType {
	switch SlideType(strings.ToLower(strings.TrimSpace(s))) {
	case SlideDay:
		return SlideDay
	case SlideSummary:
		return SlideSummary
	default:
		return SlideCover
	}
}

// Source classifies where an image came from.
type Source string

const (
	SourceAI                 Source = "ai"
	SourceLocationPhoto      Source = "location-photo"
	SourceStockThemed        Source = "stock-themed"
	SourceStockDeterministic Source = "stock-deterministic"
)

// Request describes one background image to produce.
type Request struct {
	Slide      SlideType
	City       string
	Theme      string
	Style      string
	DayNumber  int
	Activities []string
}

// Image is the normalized result from any provider. Exactly one of Data or
// URL is set: AI generators return raw bytes, photo searches return a
// remote URL.
type Image struct {
	Data     []byte
	URL      string
	MIME     string
	Source   Source
	Provider string
}

// Provider is the uniform adapter contract. TryGenerate makes a single
// attempt; a nil image with nil error means the provider had nothing for
// this request and the caller should move on.
type Provider interface {
	Name() string
	Available() bool
	TryGenerate(ctx context.Context, req Request) (*Image, error)
}

// Prompt renders the text-to-image prompt for an AI provider.
func Prompt(req Request) string {
	city := strings.TrimSpace(req.City)
	theme := strings.TrimSpace(req.Theme)
	if theme == "" {
		theme = "vibrant travel photography"
	}
	style := strings.TrimSpace(req.Style)
	if style == "" {
		style = "golden hour lighting, no text, no watermarks"
	}

	switch req.Slide {
	case SlideDay:
		focus := "iconic scenery"
		if len(req.Activities) > 0 {
			focus = strings.Join(req.Activities[:min(3, len(req.Activities))], ", ")
		}
		return fmt.Sprintf(
			"Vertical 9:16 travel story background of %s, day %d of a trip. Scene inspired by: %s. Mood: %s. %s.",
			city, req.DayNumber, focus, theme, style)
	case SlideSummary:
		return fmt.Sprintf(
			"Vertical 9:16 panoramic skyline of %s at dusk, farewell mood, %s. %s.",
			city, theme, style)
	default:
		return fmt.Sprintf(
			"Vertical 9:16 cinematic cover image of %s, landmark view, %s. %s.",
			city, theme, style)
	}
}

// SearchQuery renders the keyword query for photo-search providers.
func SearchQuery(req Request) string {
	city := strings.TrimSpace(req.City)
	theme := strings.TrimSpace(req.Theme)
	if theme == "" {
		return city + " travel"
	}
	return city + " " + theme
}
