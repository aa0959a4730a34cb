package background

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"server/internal/providers/seedream"
)

type seedreamImageClient interface {
	GenerateImage(context.Context, seedream.ImageRequest) (*seedream.ImageAsset, error)
	HasCredentials() bool
	Model() string
}

// SeedreamProvider adapts the Ark Seedream client to the Provider contract.
type SeedreamProvider struct {
	client seedreamImageClient
}

// NewSeedreamProvider wraps a Seedream client. A nil client yields a
// permanently unavailable provider.
func NewSeedreamProvider(client *seedream.Client) *SeedreamProvider {
	if client == nil {
		return &SeedreamProvider{}
	}
	return &SeedreamProvider{client: client}
}

func (p *SeedreamProvider) Name() string { return "seedream" }

func (p *SeedreamProvider) Available() bool {
	return p != nil && p.client != nil && p.client.HasCredentials()
}

// TryGenerate makes a single generation attempt. Seeds are derived from the
// request so replays of one slide produce the same image.
func (p *SeedreamProvider) TryGenerate(ctx context.Context, req Request) (*Image, error) {
	if !p.Available() {
		return nil, nil
	}
	asset, err := p.client.GenerateImage(ctx, seedream.ImageRequest{
		Prompt: Prompt(req),
		Size:   "1080x1920",
		Seed:   deterministicSeed(req.City, string(req.Slide), req.DayNumber),
	})
	if err != nil {
		return nil, fmt.Errorf("seedream generate: %w", err)
	}
	if asset == nil || (len(asset.Data) == 0 && asset.URL == "") {
		return nil, nil
	}
	return &Image{
		Data:     asset.Data,
		URL:      asset.URL,
		MIME:     asset.Format,
		Source:   SourceAI,
		Provider: p.Name(),
	}, nil
}

var _ Provider = (*SeedreamProvider)(nil)

func deterministicSeed(values ...any) int {
	var parts []string
	for _, v := range values {
		parts = append(parts, fmt.Sprint(v))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	n := int(binary.BigEndian.Uint32(sum[:4]) % 2147483647)
	if n <= 0 {
		n = 1
	}
	return n
}
