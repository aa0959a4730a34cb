package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GeminiOptions configures the Gemini-backed planner.
type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Planner
}

// GeminiPlanner asks a Gemini text model for an itinerary and falls back to
// another planner when the call fails, so planning is best effort by
// design.
type GeminiPlanner struct {
	apiKey   string
	model    string
	baseURL  string
	client   *http.Client
	fallback Planner
}

const (
	geminiDefaultTimeout = 20 * time.Second
	geminiProviderName   = "gemini"
	staticProviderName   = "static"
)

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature    float64 `json:"temperature,omitempty"`
	CandidateCount int     `json:"candidateCount,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiPlanner(opts GeminiOptions) (*GeminiPlanner, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiPlanner{
		apiKey:   opts.APIKey,
		model:    model,
		baseURL:  baseURL,
		client:   client,
		fallback: opts.Fallback,
	}, nil
}

// Plan fulfils the Planner interface.
func (g *GeminiPlanner) Plan(ctx context.Context, req PlanRequest) (*PlanResponse, error) {
	resp, err := g.callGemini(ctx, req)
	if err != nil {
		if g.fallback != nil {
			return g.fallback.Plan(ctx, req)
		}
		return nil, err
	}
	return resp, nil
}

func (g *GeminiPlanner) callGemini(ctx context.Context, req PlanRequest) (*PlanResponse, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: buildPlanPrompt(req)}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:    0.7,
			CandidateCount: 1,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: call api: %w", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini: api status %d", httpResp.StatusCode)
	}

	var decoded geminiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	text := firstCandidateText(decoded)
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("gemini: empty candidate text")
	}
	return &PlanResponse{
		Title:    fmt.Sprintf("%d Days in %s", effectiveDays(req), strings.TrimSpace(req.City)),
		Text:     text,
		Provider: geminiProviderName,
	}, nil
}

func buildPlanPrompt(req PlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan a %d-day trip to %s", effectiveDays(req), strings.TrimSpace(req.City))
	if req.Country != "" {
		fmt.Fprintf(&b, ", %s", req.Country)
	}
	b.WriteString(".\n")
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "The traveler is interested in: %s.\n", strings.Join(req.Interests, ", "))
	}
	b.WriteString("Format strictly as 'Day N' headings followed by bullet lines ")
	b.WriteString("like '- 9:00 AM - Activity at Place'. No introduction, no closing remarks.")
	if req.Locale != "" && req.Locale != "en" {
		fmt.Fprintf(&b, " Respond in locale %q.", req.Locale)
	}
	return b.String()
}

func effectiveDays(req PlanRequest) int {
	if req.Days <= 0 {
		return 3
	}
	return req.Days
}

func firstCandidateText(resp geminiResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

var _ Planner = (*GeminiPlanner)(nil)
