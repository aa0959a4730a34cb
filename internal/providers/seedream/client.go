package seedream

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"server/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("seedream: api key is required")

// Options configures the BytePlus Ark Seedream client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	DefaultSize    string
	Watermark      bool
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Ark Seedream text-to-image API.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	defaultSize string
	watermark   bool
	httpClient  *http.Client
	logger      *infra.Logger
}

// ImageRequest captures the required inputs for image generation.
type ImageRequest struct {
	Prompt    string
	Size      string
	Seed      int
	RequestID string
}

// ImageAsset is the normalized result from the Seedream API.
type ImageAsset struct {
	URL    string
	Data   []byte
	Format string
}

type generationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Size           string `json:"size,omitempty"`
	Seed           *int   `json:"seed,omitempty"`
	Watermark      *bool  `json:"watermark,omitempty"`
	ResponseFormat string `json:"response_format"`
}

type generationResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://ark.ap-southeast.bytepluses.com/api/v3"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "seedream-3-0-t2i"
	}
	defaultSize := strings.TrimSpace(opts.DefaultSize)
	if defaultSize == "" {
		defaultSize = "1080x1920"
	}
	return &Client{
		apiKey:      strings.TrimSpace(opts.APIKey),
		baseURL:     baseURL,
		model:       model,
		defaultSize: defaultSize,
		watermark:   opts.Watermark,
		httpClient:  httpClient,
		logger:      opts.Logger,
	}
}

// HasCredentials reports whether an API key was configured.
func (c *Client) HasCredentials() bool {
	return c != nil && c.apiKey != ""
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// GenerateImage performs a single text-to-image call. No retries: the
// caller's fallback chain decides what happens on failure.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*ImageAsset, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	size := strings.TrimSpace(req.Size)
	if size == "" {
		size = c.defaultSize
	}
	payload := generationRequest{
		Model:          c.model,
		Prompt:         strings.TrimSpace(req.Prompt),
		Size:           size,
		ResponseFormat: "b64_json",
	}
	if req.Seed > 0 {
		payload.Seed = &req.Seed
	}
	if !c.watermark {
		watermark := false
		payload.Watermark = &watermark
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("seedream: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("seedream: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.RequestID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("seedream: call api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("seedream: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seedream: api status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var decoded generationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("seedream: decode response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("seedream: api error %s: %s", decoded.Error.Code, decoded.Error.Message)
	}
	if len(decoded.Data) == 0 {
		return nil, errors.New("seedream: empty response")
	}

	item := decoded.Data[0]
	asset := &ImageAsset{URL: item.URL, Format: "image/png"}
	if item.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("seedream: decode image payload: %w", err)
		}
		asset.Data = data
	}
	if len(asset.Data) == 0 && asset.URL == "" {
		return nil, errors.New("seedream: response carried no image")
	}
	if c.logger != nil {
		c.logger.Debug().
			Str("model", c.model).
			Int("bytes", len(asset.Data)).
			Msg("seedream image generated")
	}
	return asset, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
