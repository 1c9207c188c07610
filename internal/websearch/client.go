// Package websearch asks an online answer engine (Perplexity) for web-grounded
// context when the indexed books do not answer a question confidently.
package websearch

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

	"golang.org/x/time/rate"

	"plc-kb/internal/contextutil"
)

const (
	defaultBaseURL = "https://api.perplexity.ai"
	requestTimeout = 30 * time.Second
	systemPrompt   = "You are a PLC education expert. Answer concisely with sources."
)

// ErrNotConfigured is returned by Search when no API key is set.
var ErrNotConfigured = errors.New("web search is not configured")

// Client calls the Perplexity chat completions API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      RetryPolicy
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host (used in tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a web search client. An empty apiKey yields a client whose
// Configured method reports false.
func NewClient(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      model,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(2), 4),
		retry:      DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Search sends query to the web provider and returns the answer text.
// Transport failures, 429 and 5xx responses are retried per the client's RetryPolicy.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	logger := contextutil.LoggerFromContext(ctx)

	var answer string
	err := c.retry.Do(ctx, func(attempt int) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		answer, err = c.searchOnce(ctx, query)
		if err != nil {
			logger.WarnContext(ctx, "web search attempt failed", "attempt", attempt, "error", err)
		}
		return err
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}

func (c *Client) searchOnce(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransientError{Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", &TransientError{Err: statusErr}
		}
		return "", statusErr
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 || strings.TrimSpace(chatResp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty web search answer")
	}

	return chatResp.Choices[0].Message.Content, nil
}
