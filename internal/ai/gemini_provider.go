package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fdg312/diet-planner/internal/config"
	"github.com/fdg312/diet-planner/internal/planner"
)

var ErrEmptyResponse = errors.New("gemini response has no text")

type GeminiProvider struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	httpClient  *http.Client
}

func NewGeminiProvider(cfg *config.Config) *GeminiProvider {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &GeminiProvider{
		apiKey:      cfg.GeminiAPIKey,
		model:       cfg.GeminiModel,
		baseURL:     strings.TrimRight(cfg.GeminiBaseURL, "/"),
		temperature: cfg.AITemperature,
		httpClient:  &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
	}
}

func (p *GeminiProvider) DescribeDay(ctx context.Context, day planner.DailyPlan) (string, error) {
	prompt, err := dayPrompt(day)
	if err != nil {
		return "", err
	}
	return p.generate(ctx, prompt)
}

func (p *GeminiProvider) generate(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{Temperature: p.temperature},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, url.PathEscape(p.model), url.QueryEscape(p.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini request failed with status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	text := parsed.firstText()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type candidate struct {
	Content content `json:"content"`
	Text    string  `json:"text"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Text       string      `json:"text"`
}

// firstText: joined parts of the first candidate that has any, then a bare
// candidate text, then a top-level text field.
func (r generateResponse) firstText() string {
	for _, c := range r.Candidates {
		texts := make([]string, 0, len(c.Content.Parts))
		for _, p := range c.Content.Parts {
			if t := strings.TrimSpace(p.Text); t != "" {
				texts = append(texts, t)
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, " ")
		}
		if t := strings.TrimSpace(c.Text); t != "" {
			return t
		}
	}
	return strings.TrimSpace(r.Text)
}
