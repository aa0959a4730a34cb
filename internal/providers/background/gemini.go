package background

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider generates backgrounds with Google's Imagen models through
// the GenAI SDK. It is the premium-tier AI source.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider builds the provider. An empty API key returns a
// provider that reports itself unavailable instead of an error, so wiring
// stays uniform across deployments with partial credentials.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if model == "" {
		model = "imagen-3.0-generate-002"
	}
	if apiKey == "" {
		return &GeminiProvider{model: model}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Available() bool {
	return p != nil && p.client != nil
}

// TryGenerate requests a single 9:16 image and returns its raw bytes.
func (p *GeminiProvider) TryGenerate(ctx context.Context, req Request) (*Image, error) {
	if !p.Available() {
		return nil, nil
	}
	resp, err := p.client.Models.GenerateImages(ctx, p.model, Prompt(req), &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    "9:16",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, nil
	}
	img := resp.GeneratedImages[0].Image
	if img == nil || len(img.ImageBytes) == 0 {
		return nil, nil
	}
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &Image{
		Data:     img.ImageBytes,
		MIME:     mime,
		Source:   SourceAI,
		Provider: p.Name(),
	}, nil
}

var _ Provider = (*GeminiProvider)(nil)
