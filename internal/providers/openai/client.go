package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"server/internal/domain"
	"server/internal/infra"
)

// Options controls how the OpenAI client is configured.
type Options struct {
	APIKey         string
	Model          string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	MaxAttempts    int
	RetryBaseDelay time.Duration
	AttemptTimeout time.Duration
	// OnRetry is invoked before each backoff delay.
	OnRetry func(attempt int, delay time.Duration)
}

const (
	defaultModel          = "gpt-4o"
	defaultBaseURL        = "https://api.openai.com/v1"
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = time.Second
	defaultAttemptTimeout = 60 * time.Second
)

// Client issues itinerary generation requests against the OpenAI chat
// completions endpoint. Transport-level failures (rate limit, timeout,
// network) are retried with exponential backoff; any other non-success
// status and unparseable response bodies are terminal.
type Client struct {
	apiKey         string
	model          string
	baseURL        string
	client         *http.Client
	logger         *infra.Logger
	maxAttempts    int
	retryBaseDelay time.Duration
	attemptTimeout time.Duration
	onRetry        func(attempt int, delay time.Duration)
}

// NewClient validates the options and constructs a Client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	retryBaseDelay := opts.RetryBaseDelay
	if retryBaseDelay <= 0 {
		retryBaseDelay = defaultRetryBaseDelay
	}
	attemptTimeout := opts.AttemptTimeout
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	return &Client{
		apiKey:         strings.TrimSpace(opts.APIKey),
		model:          model,
		baseURL:        baseURL,
		client:         client,
		logger:         opts.Logger,
		maxAttempts:    maxAttempts,
		retryBaseDelay: retryBaseDelay,
		attemptTimeout: attemptTimeout,
		onRetry:        opts.OnRetry,
	}, nil
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature,omitempty"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type itineraryPayload struct {
	Itinerary []domain.DayPlan `json:"itinerary"`
}

// Generate produces the candidate day plans for one job. It retries
// rate-limit, timeout and transport failures up to the attempt budget,
// sleeping base<<attempt between attempts.
func (c *Client) Generate(ctx context.Context, destination string, durationDays int) ([]domain.DayPlan, error) {
	payload := chatRequest{
		Model:       c.model,
		Temperature: 0.7,
		MaxTokens:   3000,
		ResponseFormat: &chatFormat{
			Type: "json_object",
		},
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: BuildPrompt(destination, durationDays)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		plans, retryable, err := c.attempt(ctx, body)
		if err == nil {
			return plans, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, fmt.Errorf("generation aborted: %w", ctx.Err())
		}
		if attempt == c.maxAttempts-1 {
			break
		}
		delay := c.retryBaseDelay << attempt
		if c.onRetry != nil {
			c.onRetry(attempt, delay)
		}
		if c.logger != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt+1).Dur("backoff", delay).Msg("openai: retrying generation")
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("generation aborted: %w", ctx.Err())
		case <-timer.C:
		}
	}
	return nil, fmt.Errorf("generation failed after %d attempts: %w", c.maxAttempts, lastErr)
}

// attempt performs one request. The boolean reports whether the error is
// a retryable transport condition, as opposed to a terminal provider or
// content failure.
func (c *Client) attempt(ctx context.Context, body []byte) ([]domain.DayPlan, bool, error) {
	actx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(actx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if actx.Err() != nil && ctx.Err() == nil {
			return nil, true, fmt.Errorf("%w: request timed out", domain.ErrProviderFailure)
		}
		return nil, true, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("%w: rate limited (status 429)", domain.ErrProviderFailure)
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("%w: openai status %d: %s", domain.ErrProviderFailure, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("%w: decode response: %v", domain.ErrInvalidContent, err)
	}
	if len(out.Choices) == 0 {
		return nil, false, fmt.Errorf("%w: response contains no choices", domain.ErrInvalidContent)
	}
	content := extractJSONFragment(out.Choices[0].Message.Content)
	if content == "" {
		return nil, false, fmt.Errorf("%w: empty completion", domain.ErrInvalidContent)
	}

	var parsed itineraryPayload
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, false, fmt.Errorf("%w: completion is not the expected schema: %v", domain.ErrInvalidContent, err)
	}
	if parsed.Itinerary == nil {
		return nil, false, fmt.Errorf("%w: completion is missing the itinerary key", domain.ErrInvalidContent)
	}
	return parsed.Itinerary, false, nil
}

// extractJSONFragment strips code fences and surrounding prose that
// models occasionally wrap around the JSON object.
func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}
