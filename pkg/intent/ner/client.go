package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pc-autobuild-be/pkg/intent"

	"github.com/cenkalti/backoff/v5"
)

// Client calls the NER service: POST {baseURL}/extract {"text": "..."} and
// expects {"entities": [{"value": "...", "label": "..."}]}.
type Client struct {
	BaseURL    string
	Client     *http.Client
	MaxRetries uint
}

var _ intent.Extractor = &Client{}

func NewClient(baseURL string, timeout time.Duration, maxRetries uint) *Client {
	return &Client{
		BaseURL:    baseURL,
		MaxRetries: maxRetries,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Entities []intent.Entity `json:"entities"`
}

// Extract retries transport errors and 5xx answers with exponential backoff.
// 4xx answers fail immediately.
func (c *Client) Extract(ctx context.Context, text string) ([]intent.Entity, error) {
	body, err := json.Marshal(extractRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	operation := func() ([]intent.Entity, error) {
		return c.do(ctx, body)
	}

	tries := c.MaxRetries + 1
	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(newBackOff()),
		backoff.WithMaxTries(tries),
	)
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}

func (c *Client) do(ctx context.Context, body []byte) ([]intent.Entity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("ner service error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode ner response: %w", err))
	}
	return out.Entities, nil
}
