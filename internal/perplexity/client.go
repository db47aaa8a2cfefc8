// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package perplexity implements the Perplexity chat-completions API client
// used by the query commands.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/pplx/internal/httputil"
	"github.com/pdiddy/pplx/pkg/types"
)

// apiBase is the Perplexity chat-completions endpoint. Declared as a var
// so tests can substitute an httptest server.
var apiBase = "https://api.perplexity.ai/chat/completions"

// Message is one chat message in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the chat-completions request body.
type Request struct {
	Model               string    `json:"model"`
	Messages            []Message `json:"messages"`
	MaxTokens           int       `json:"max_tokens,omitempty"`
	Temperature         float64   `json:"temperature"`
	TopP                float64   `json:"top_p,omitempty"`
	SearchMode          string    `json:"search_mode,omitempty"`
	SearchRecencyFilter string    `json:"search_recency_filter,omitempty"`
	SearchDomainFilter  []string  `json:"search_domain_filter,omitempty"`
}

// Usage holds the token counts reported with a completion.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

type response struct {
	ID      string `json:"id"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	SearchResults []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Date  string `json:"date"`
	} `json:"search_results"`
}

// Answer is the completed exchange handed back to the CLI layer.
type Answer struct {
	// Content is the answer text from the first choice.
	Content string

	// Model is the model identifier the API reports it used.
	Model string

	// Citations lists the search results backing the answer, in API order.
	Citations []types.Citation

	// Usage holds the reported token counts.
	Usage Usage

	// Duration is the wall-clock time the request took.
	Duration time.Duration
}

// Client calls the Perplexity API.
type Client struct {
	http   *http.Client
	apiKey string
	cfg    types.APIConfig
}

// NewClient returns a client authenticated with cfg.APIKey.
func NewClient(cfg types.APIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		apiKey: cfg.APIKey,
		cfg:    cfg,
	}
}

// Complete sends one chat-completions request and returns the answer.
// Rate-limited calls are retried with backoff.
func (c *Client) Complete(ctx context.Context, req Request) (Answer, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Answer{}, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase, bytes.NewReader(body))
	if err != nil {
		return Answer{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, c.http, httpReq, c.cfg.MaxRetries)
	if err != nil {
		return Answer{}, fmt.Errorf("Perplexity API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Answer{}, fmt.Errorf("Perplexity API returned HTTP %d: %s",
			resp.StatusCode, bytes.TrimSpace(detail))
	}

	var pr response
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return Answer{}, fmt.Errorf("parsing Perplexity response: %w", err)
	}
	if len(pr.Choices) == 0 {
		return Answer{}, fmt.Errorf("Perplexity response contained no choices")
	}

	answer := Answer{
		Content:  pr.Choices[0].Message.Content,
		Model:    pr.Model,
		Usage:    pr.Usage,
		Duration: time.Since(start),
	}
	if answer.Model == "" {
		answer.Model = req.Model
	}
	for _, sr := range pr.SearchResults {
		answer.Citations = append(answer.Citations, types.Citation{
			Title: sr.Title,
			URL:   sr.URL,
			Date:  sr.Date,
		})
	}
	return answer, nil
}
