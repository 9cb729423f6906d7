// Package notion implements the document store client on top of the Notion REST API.
// Feed registrations live in one database, entries in another one, linked by a relation property.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-pkgz/lgr"
	"golang.org/x/time/rate"

	"github.com/umputun/rss2notion/pkg/config"
)

// ErrNoAPIKey returned when the client is created without an API key
var ErrNoAPIKey = errors.New("notion api key is not set")

// Client talks to Notion databases holding feed registrations and entries
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	endpoint   string
	apiKey     string
	version    string

	feedsDB    string
	readingDB  string
	feedProps  config.FeedProperties
	entryProps config.EntryProperties
}

// APIError is an error response returned by Notion
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion api error %d %s: %s", e.Status, e.Code, e.Message)
}

// New creates a Notion client. API key and both database ids are required.
func New(cfg config.NotionConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.FeedsDatabase == "" {
		return nil, fmt.Errorf("feeds database id is required")
	}
	if cfg.ReadingDatabase == "" {
		return nil, fmt.Errorf("reading database id is required")
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		version:    cfg.Version,
		feedsDB:    cfg.FeedsDatabase,
		readingDB:  cfg.ReadingDatabase,
		feedProps:  cfg.FeedProps,
		entryProps: cfg.EntryProps,
	}, nil
}

// do sends a JSON request and decodes the JSON response into result, if not nil
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var reqBody io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")

	lgr.Printf("[DEBUG] notion %s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if jerr := json.Unmarshal(data, apiErr); jerr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}
	return nil
}
