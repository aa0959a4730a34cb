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

const tripAdvisorDefaultBaseURL = "https://api.content.tripadvisor.com/api/v1"

// TripAdvisorProvider searches TripAdvisor's content API for real photos of
// the destination: first a geo lookup for the city, then that location's
// photo list.
type TripAdvisorProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// TripAdvisorOptions configures the provider.
type TripAdvisorOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func NewTripAdvisorProvider(opts TripAdvisorOptions) *TripAdvisorProvider {
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
		baseURL = tripAdvisorDefaultBaseURL
	}
	return &TripAdvisorProvider{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (p *TripAdvisorProvider) Name() string { return "tripadvisor" }

func (p *TripAdvisorProvider) Available() bool {
	return p != nil && p.apiKey != ""
}

type tripAdvisorSearchResponse struct {
	Data []struct {
		LocationID string `json:"location_id"`
		Name       string `json:"name"`
	} `json:"data"`
}

type tripAdvisorPhotosResponse struct {
	Data []struct {
		Images struct {
			Large struct {
				URL string `json:"url"`
			} `json:"large"`
			Original struct {
				URL string `json:"url"`
			} `json:"original"`
		} `json:"images"`
	} `json:"data"`
}

// TryGenerate resolves the city to a TripAdvisor location and returns the
// URL of its first large photo. A city with no match or no photos is a
// clean miss, not an error.
func (p *TripAdvisorProvider) TryGenerate(ctx context.Context, req Request) (*Image, error) {
	if !p.Available() {
		return nil, nil
	}

	var search tripAdvisorSearchResponse
	searchURL := fmt.Sprintf("%s/location/search?key=%s&searchQuery=%s&category=geos&language=en",
		p.baseURL, url.QueryEscape(p.apiKey), url.QueryEscape(strings.TrimSpace(req.City)))
	if err := p.getJSON(ctx, searchURL, &search); err != nil {
		return nil, fmt.Errorf("tripadvisor search: %w", err)
	}
	if len(search.Data) == 0 {
		return nil, nil
	}

	var photos tripAdvisorPhotosResponse
	photosURL := fmt.Sprintf("%s/location/%s/photos?key=%s&language=en",
		p.baseURL, url.PathEscape(search.Data[0].LocationID), url.QueryEscape(p.apiKey))
	if err := p.getJSON(ctx, photosURL, &photos); err != nil {
		return nil, fmt.Errorf("tripadvisor photos: %w", err)
	}
	for _, photo := range photos.Data {
		photoURL := photo.Images.Large.URL
		if photoURL == "" {
			photoURL = photo.Images.Original.URL
		}
		if photoURL == "" {
			continue
		}
		return &Image{
			URL:      photoURL,
			MIME:     "image/jpeg",
			Source:   SourceLocationPhoto,
			Provider: p.Name(),
		}, nil
	}
	return nil, nil
}

func (p *TripAdvisorProvider) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.Unmarshal(body, out)
}

var _ Provider = (*TripAdvisorProvider)(nil)
