package feed

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/rss2notion/pkg/domain"
)

// Parser fetches and parses RSS/Atom feeds
type Parser struct {
	client    *http.Client
	userAgent string
	policy    *bluemonday.Policy
}

// NewParser creates a new feed parser
func NewParser(timeout time.Duration, userAgent string) *Parser {
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
		policy:    bluemonday.StrictPolicy(),
	}
}

// Parse fetches and parses a feed from the given URL.
// Entries keep the order returned by the feed.
func (p *Parser) Parse(ctx context.Context, url string) (domain.FeedSnapshot, error) {
	// fetch feed content
	body, err := p.fetch(ctx, url)
	if err != nil {
		return domain.FeedSnapshot{}, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return domain.FeedSnapshot{}, fmt.Errorf("parse feed: %w", err)
	}

	result := domain.FeedSnapshot{
		Title:       strings.TrimSpace(feed.Title),
		Description: p.plainText(feed.Description),
		Link:        feed.Link,
		Entries:     make([]domain.Entry, 0, len(feed.Items)),
	}
	if feed.UpdatedParsed != nil {
		result.Updated = *feed.UpdatedParsed
	}

	for _, item := range feed.Items {
		entry := domain.Entry{
			Title:      strings.TrimSpace(item.Title),
			Link:       strings.TrimSpace(item.Link),
			Summary:    p.plainText(item.Description),
			Categories: item.Categories,
		}

		// use content if the feed has no description
		if entry.Summary == "" {
			entry.Summary = p.plainText(item.Content)
		}

		if item.Author != nil {
			entry.Author = item.Author.Name
		}

		// set published time
		if item.PublishedParsed != nil {
			entry.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			entry.Published = *item.UpdatedParsed
		}

		if feed.UpdatedParsed == nil && entry.Published.After(result.Updated) {
			result.Updated = entry.Published
		}

		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

// plainText strips html tags and entities and collapses whitespace
func (p *Parser) plainText(s string) string {
	if s == "" {
		return ""
	}
	text := html.UnescapeString(p.policy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)

	// add browser-like headers
	addBrowserHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
