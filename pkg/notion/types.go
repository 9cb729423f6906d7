package notion

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// notion limits a single rich text object to 2000 characters and a property to 100 objects
const (
	maxTextLength = 2000
	maxTextChunks = 100
)

type queryRequest struct {
	Filter      any    `json:"filter,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type relationFilter struct {
	Property string `json:"property"`
	Relation struct {
		Contains string `json:"contains"`
	} `json:"relation"`
}

type page struct {
	ID         string              `json:"id,omitempty"`
	Parent     *parent             `json:"parent,omitempty"`
	Properties map[string]property `json:"properties"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

type property struct {
	Type        string         `json:"type,omitempty"`
	Title       []richText     `json:"title,omitempty"`
	RichText    []richText     `json:"rich_text,omitempty"`
	URL         *string        `json:"url,omitempty"`
	MultiSelect []selectOption `json:"multi_select,omitempty"`
	Relation    []relation     `json:"relation,omitempty"`
	Date        *date          `json:"date,omitempty"`
}

type richText struct {
	Type      string       `json:"type,omitempty"`
	Text      *textContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

type textContent struct {
	Content string `json:"content"`
}

type selectOption struct {
	Name string `json:"name"`
}

type relation struct {
	ID string `json:"id"`
}

type date struct {
	Start string `json:"start"`
}

// text returns plain text of a property, works for title, rich_text and url properties
func (p property) text() string {
	if p.URL != nil {
		return strings.TrimSpace(*p.URL)
	}
	parts := p.Title
	if len(parts) == 0 {
		parts = p.RichText
	}
	var sb strings.Builder
	for _, rt := range parts {
		switch {
		case rt.PlainText != "":
			sb.WriteString(rt.PlainText)
		case rt.Text != nil:
			sb.WriteString(rt.Text.Content)
		}
	}
	return strings.TrimSpace(sb.String())
}

func (p property) tags() []string {
	return lo.Map(p.MultiSelect, func(o selectOption, _ int) string { return o.Name })
}

func titleProperty(s string) property {
	return property{Title: textChunks(s)}
}

func richTextProperty(s string) property {
	return property{RichText: textChunks(s)}
}

func urlProperty(s string) property {
	return property{URL: &s}
}

func dateProperty(t time.Time) property {
	return property{Date: &date{Start: t.Format(time.RFC3339)}}
}

func multiSelectProperty(tags []string) property {
	// notion rejects commas in select option names
	opts := lo.FilterMap(tags, func(t string, _ int) (selectOption, bool) {
		t = strings.TrimSpace(strings.ReplaceAll(t, ",", " "))
		return selectOption{Name: t}, t != ""
	})
	return property{MultiSelect: lo.UniqBy(opts, func(o selectOption) string { return o.Name })}
}

func relationProperty(pageID string) property {
	return property{Relation: []relation{{ID: pageID}}}
}

// textChunks splits text into rich text objects within notion size limits
func textChunks(s string) []richText {
	if s == "" {
		return []richText{}
	}
	chunks := lo.ChunkString(s, maxTextLength)
	if len(chunks) > maxTextChunks {
		chunks = chunks[:maxTextChunks]
	}
	return lo.Map(chunks, func(c string, _ int) richText {
		return richText{Type: "text", Text: &textContent{Content: c}}
	})
}
