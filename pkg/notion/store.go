package notion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/samber/lo"

	"github.com/umputun/rss2notion/pkg/domain"
)

const pageSize = 100

// ListFeeds returns all feed registrations in the order returned by the feeds database
func (c *Client) ListFeeds(ctx context.Context) ([]domain.FeedRegistration, error) {
	pages, err := c.queryDatabase(ctx, c.feedsDB, nil)
	if err != nil {
		return nil, fmt.Errorf("query feeds database: %w", err)
	}

	return lo.Map(pages, func(p page, _ int) domain.FeedRegistration {
		return domain.FeedRegistration{
			PageID: p.ID,
			URL:    p.Properties[c.feedProps.URL].text(),
			Title:  p.Properties[c.feedProps.Title].text(),
			Tags:   p.Properties[c.feedProps.Tags].tags(),
		}
	}), nil
}

// EntryLinks returns links of all entries related to the given feed page.
// Entries without a link are ignored.
func (c *Client) EntryLinks(ctx context.Context, feedPageID string) ([]string, error) {
	filter := relationFilter{Property: c.entryProps.Source}
	filter.Relation.Contains = feedPageID

	pages, err := c.queryDatabase(ctx, c.readingDB, filter)
	if err != nil {
		return nil, fmt.Errorf("query entries of %s: %w", feedPageID, err)
	}

	return lo.FilterMap(pages, func(p page, _ int) (string, bool) {
		link := p.Properties[c.entryProps.URL].text()
		return link, link != ""
	}), nil
}

// UpdateFeed writes poll status to the feed registration page.
// Title is written only if set, zero UpdatedAt is not written.
func (c *Client) UpdateFeed(ctx context.Context, feedPageID string, status domain.FeedStatus) error {
	props := map[string]property{
		c.feedProps.Checked: dateProperty(status.CheckedAt),
	}
	if !status.UpdatedAt.IsZero() {
		props[c.feedProps.Updated] = dateProperty(status.UpdatedAt)
	}
	if status.Title != "" {
		props[c.feedProps.Title] = titleProperty(status.Title)
	}

	path := "/v1/pages/" + url.PathEscape(feedPageID)
	if err := c.do(ctx, http.MethodPatch, path, page{Properties: props}, nil); err != nil {
		return fmt.Errorf("update feed %s: %w", feedPageID, err)
	}
	return nil
}

// CreateEntry creates an entry page in the reading database, related to its source feed
func (c *Client) CreateEntry(ctx context.Context, entry domain.Entry) error {
	title := entry.Title
	if title == "" {
		title = entry.Link
	}

	props := map[string]property{
		c.entryProps.Title:  titleProperty(title),
		c.entryProps.URL:    urlProperty(entry.Link),
		c.entryProps.Source: relationProperty(entry.SourcePageID),
	}
	if len(entry.Tags) > 0 {
		props[c.entryProps.Tags] = multiSelectProperty(entry.Tags)
	}
	if entry.Summary != "" {
		props[c.entryProps.Summary] = richTextProperty(entry.Summary)
	}
	if !entry.Published.IsZero() {
		props[c.entryProps.Published] = dateProperty(entry.Published)
	}

	req := page{Parent: &parent{DatabaseID: c.readingDB}, Properties: props}
	if err := c.do(ctx, http.MethodPost, "/v1/pages", req, nil); err != nil {
		return fmt.Errorf("create entry %s: %w", entry.Link, err)
	}
	return nil
}

// queryDatabase returns all pages matching the filter, following pagination
func (c *Client) queryDatabase(ctx context.Context, dbID string, filter any) ([]page, error) {
	path := "/v1/databases/" + url.PathEscape(dbID) + "/query"
	var res []page
	req := queryRequest{Filter: filter, PageSize: pageSize}
	for {
		var resp queryResponse
		if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
			return nil, err
		}
		res = append(res, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return res, nil
		}
		req.StartCursor = resp.NextCursor
	}
}
