package background

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const pexelsDefaultBaseURL = "https://api.pexels.com/v1"

// PexelsProvider searches Pexels for themed stock photography of the city.
type PexelsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// PexelsOptions configures the provider.
type PexelsOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func NewPexelsProvider(opts PexelsOptions) *PexelsProvider {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = pexelsDefaultBaseURL
	}
	return &PexelsProvider{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (p *PexelsProvider) Name() string { return "pexels" }

func (p *PexelsProvider) Available() bool {
	return p != nil && p.apiKey != ""
}

type pexelsSearchResponse struct {
	Photos []struct {
		Src struct {
			Portrait string `json:"portrait"`
			Large2x  string `json:"large2x"`
			Original string `json:"original"`
		} `json:"src"`
	} `json:"photos"`
}

// TryGenerate returns the portrait rendition of the first search hit.
func (p *PexelsProvider) TryGenerate(ctx context.Context, req Request) (*Image, error) {
	if !p.Available() {
		return nil, nil
	}

	searchURL := fmt.Sprintf("%s/search?query=%s&orientation=portrait&per_page=5",
		p.baseURL, url.QueryEscape(SearchQuery(req)))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("pexels: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("pexels: call api: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("pexels: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels: api status %d", resp.StatusCode)
	}

	var decoded pexelsSearchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("pexels: decode response: %w", err)
	}
	for _, photo := range decoded.Photos {
		photoURL := photo.Src.Portrait
		if photoURL == "" {
			photoURL = photo.Src.Large2x
		}
		if photoURL == "" {
			photoURL = photo.Src.Original
		}
		if photoURL == "" {
			continue
		}
		return &Image{
			URL:      photoURL,
			MIME:     "image/jpeg",
			Source:   SourceStockThemed,
			Provider: p.Name(),
		}, nil
	}
	return nil, nil
}

var _ Provider = (*PexelsProvider)(nil)
