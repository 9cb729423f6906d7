// Package ingest implements one poll cycle: fetch registered feeds, skip entries already stored,
// optionally enrich new entries with a generated annotation and persist them.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/rss2notion/pkg/domain"
	"github.com/umputun/rss2notion/pkg/llm"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/enricher.go -pkg mocks -skip-ensure -fmt goimports . Enricher

// ErrNoStoreCredential returned when the run is started without a document store
var ErrNoStoreCredential = errors.New("document store credential is not set")

// Store is the document store holding feed registrations and entries
type Store interface {
	ListFeeds(ctx context.Context) ([]domain.FeedRegistration, error)
	EntryLinks(ctx context.Context, feedPageID string) ([]string, error)
	UpdateFeed(ctx context.Context, feedPageID string, status domain.FeedStatus) error
	CreateEntry(ctx context.Context, entry domain.Entry) error
}

// Fetcher retrieves and parses a feed
type Fetcher interface {
	Parse(ctx context.Context, url string) (domain.FeedSnapshot, error)
}

// Enricher generates an annotation for an entry
type Enricher interface {
	Annotate(ctx context.Context, entry domain.Entry) (string, error)
}

// Processor drives a poll cycle over all registered feeds.
// Feeds and entries are processed sequentially. Errors are isolated to the feed or entry
// they happened in, only a missing store or unreadable feed list stops the run.
type Processor struct {
	store    Store
	fetcher  Fetcher
	enricher Enricher

	successDelay time.Duration
	failureDelay time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
	now          func() time.Time
}

// Config holds processor dependencies and pacing parameters
type Config struct {
	Store    Store
	Fetcher  Fetcher
	Enricher Enricher // optional, nil disables enrichment

	SuccessDelay time.Duration // pause after successful enrichment
	FailureDelay time.Duration // pause after failed enrichment

	Sleep func(ctx context.Context, d time.Duration) error // optional, for tests
	Now   func() time.Time                                 // optional, for tests
}

// New makes a processor from the config
func New(cfg Config) *Processor {
	res := &Processor{
		store:        cfg.Store,
		fetcher:      cfg.Fetcher,
		enricher:     cfg.Enricher,
		successDelay: cfg.SuccessDelay,
		failureDelay: cfg.FailureDelay,
		sleep:        cfg.Sleep,
		now:          cfg.Now,
	}
	if res.sleep == nil {
		res.sleep = sleepCtx
	}
	if res.now == nil {
		res.now = time.Now
	}
	return res
}

// Run makes one complete poll cycle over all registered feeds, in the order returned by the store
func (p *Processor) Run(ctx context.Context) (domain.RunReport, error) {
	report := domain.RunReport{}
	if p.store == nil {
		return report, ErrNoStoreCredential
	}

	feeds, err := p.store.ListFeeds(ctx)
	if err != nil {
		return report, fmt.Errorf("list feeds: %w", err)
	}
	lgr.Printf("[INFO] processing %d feeds, enrichment enabled: %v", len(feeds), p.enricher != nil)

	for _, f := range feeds {
		if ctx.Err() != nil {
			break
		}
		report.Feeds = append(report.Feeds, p.processFeed(ctx, f))
	}

	return report, ctx.Err()
}

// processFeed fetches a single feed and persists its new entries
func (p *Processor) processFeed(ctx context.Context, f domain.FeedRegistration) domain.FeedReport {
	rep := domain.FeedReport{Title: f.Identifier(), URL: f.URL}

	if strings.TrimSpace(f.URL) == "" {
		lgr.Printf("[WARN] skip feed %q without url", f.Identifier())
		rep.State = domain.FeedSkipped
		return rep
	}

	snapshot, err := p.fetcher.Parse(ctx, f.URL)
	if ctx.Err() != nil {
		return canceled(rep)
	}
	if err != nil {
		lgr.Printf("[WARN] failed to parse feed %s (%s): %v", f.Identifier(), f.URL, err)
		rep.State = domain.FeedFailed
		rep.Error = err.Error()
		return rep
	}
	if f.Title == "" && snapshot.Title != "" {
		rep.Title = snapshot.Title
	}
	rep.Seen = len(snapshot.Entries)

	if len(snapshot.Entries) == 0 {
		p.updateFeed(ctx, f, snapshot)
		lgr.Printf("[DEBUG] no entries in feed %s", rep.Title)
		rep.State = domain.FeedNoEntries
		return rep
	}

	known, err := p.knownLinks(ctx, f)
	if err != nil {
		lgr.Printf("[WARN] failed to get known entries of feed %s, duplicates possible: %v", rep.Title, err)
		rep.Degraded = true
	}

	p.updateFeed(ctx, f, snapshot)

	for _, entry := range snapshot.Entries {
		if ctx.Err() != nil {
			break
		}
		p.processEntry(ctx, f, entry, known, &rep)
	}
	if ctx.Err() != nil {
		return canceled(rep)
	}

	rep.State = domain.FeedProcessed
	lgr.Printf("[INFO] [%s] read %d entries, %d repeated, %d created", rep.Title, rep.Seen, rep.Repeated, rep.Created)
	return rep
}

// processEntry persists a single entry unless its link is already known
func (p *Processor) processEntry(ctx context.Context, f domain.FeedRegistration, entry domain.Entry,
	known linkSet, rep *domain.FeedReport) {
	entry.SourcePageID = f.PageID
	entry.Tags = f.Tags

	if entry.Link == "" {
		lgr.Printf("[WARN] skip entry %q without link in feed %s", entry.Title, rep.Title)
		rep.NoLink++
		return
	}

	if known.has(entry.Link) {
		rep.Repeated++
		return
	}

	if p.enricher != nil {
		var ok bool
		if entry, ok = p.enrich(ctx, entry); ok {
			rep.Enriched++
		}
	}

	if ctx.Err() != nil {
		return // canceled during enrichment, the entry is neither created nor failed
	}

	if err := p.store.CreateEntry(ctx, entry); err != nil {
		lgr.Printf("[WARN] failed to save entry %s from feed %s: %v", entry.Identifier(), rep.Title, err)
		rep.Failed++
		return
	}
	known.add(entry.Link)
	rep.Created++
}

// enrich returns a copy of the entry with the annotation prepended to its summary.
// On failure the entry is returned unchanged. Pauses after each attempt to respect provider limits.
func (p *Processor) enrich(ctx context.Context, entry domain.Entry) (domain.Entry, bool) {
	lgr.Printf("[DEBUG] enriching %s", entry.Identifier())
	annotation, err := p.enricher.Annotate(ctx, entry)
	if err != nil {
		lgr.Printf("[WARN] enrichment failed for %s, saving without it: %v", entry.Identifier(), err)
		p.pause(ctx, p.failureDelay)
		return entry, false
	}
	p.pause(ctx, p.successDelay)
	return entry.WithSummary(llm.ComposeSummary(annotation, entry.Summary)), true
}

func canceled(rep domain.FeedReport) domain.FeedReport {
	lgr.Printf("[INFO] [%s] canceled, %d entries created", rep.Title, rep.Created)
	rep.State = domain.FeedCanceled
	return rep
}

func (p *Processor) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	if err := p.sleep(ctx, d); err != nil {
		lgr.Printf("[DEBUG] pause interrupted: %v", err)
	}
}

// knownLinks loads links already stored for the feed. On error returns an empty set along with the error.
func (p *Processor) knownLinks(ctx context.Context, f domain.FeedRegistration) (linkSet, error) {
	links, err := p.store.EntryLinks(ctx, f.PageID)
	if err != nil {
		return linkSet{}, err
	}
	return newLinkSet(links), nil
}

// updateFeed writes poll status to the feed registration, failures are logged only
func (p *Processor) updateFeed(ctx context.Context, f domain.FeedRegistration, snapshot domain.FeedSnapshot) {
	status := domain.FeedStatus{CheckedAt: p.now(), UpdatedAt: snapshot.Updated}
	if f.Title == "" {
		status.Title = snapshot.Title // never overwrite a curated title
	}
	if err := p.store.UpdateFeed(ctx, f.PageID, status); err != nil {
		lgr.Printf("[WARN] failed to update status of feed %s: %v", f.Identifier(), err)
	}
}

// sleepCtx waits for the duration or until the context is canceled
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
