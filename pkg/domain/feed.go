package domain

import "time"

// FeedRegistration represents a feed source registered in the document store
type FeedRegistration struct {
	PageID string
	URL    string
	Title  string
	Tags   []string
}

// Identifier returns a human-readable identifier for the feed, title if set, otherwise URL
func (f FeedRegistration) Identifier() string {
	if f.Title != "" {
		return f.Title
	}
	return f.URL
}

// FeedSnapshot is the transient result of fetching and parsing a feed
type FeedSnapshot struct {
	Title       string
	Description string
	Link        string
	Updated     time.Time // feed update time, or the newest entry publish time
	Entries     []Entry
}

// FeedStatus holds registry metadata written back after each poll
type FeedStatus struct {
	Title     string
	CheckedAt time.Time
	UpdatedAt time.Time // zero if unknown
}
