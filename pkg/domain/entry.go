package domain

import "time"

// Entry represents a single article from a feed, identified by its link within the feed
type Entry struct {
	Link       string
	Title      string
	Summary    string
	Author     string
	Categories []string
	Published  time.Time

	SourcePageID string   // page id of the feed registration the entry came from
	Tags         []string // inherited from the feed registration
}

// Identifier returns a human-readable identifier for the entry, title if set, otherwise link
func (e Entry) Identifier() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Link
}

// WithSummary returns a copy of the entry with summary replaced
func (e Entry) WithSummary(summary string) Entry {
	e.Summary = summary
	return e
}
