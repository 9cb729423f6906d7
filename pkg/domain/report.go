package domain

// FeedState is the terminal state of a single feed within a run
type FeedState string

// feed states
const (
	FeedSkipped   FeedState = "skipped"    // no url registered
	FeedFailed    FeedState = "failed"     // fetch or parse error
	FeedNoEntries FeedState = "no-entries" // feed parsed but had no entries
	FeedProcessed FeedState = "processed"
	FeedCanceled  FeedState = "canceled" // run canceled before the feed was completed
)

// FeedReport summarizes what happened to one feed during a run
type FeedReport struct {
	Title    string
	URL      string
	State    FeedState
	Seen     int // entries returned by the parser
	Repeated int // entries already known, not persisted
	Created  int
	Failed   int // entries which failed to persist
	NoLink   int // entries without a link, not persisted
	Enriched int
	Degraded bool // known links query failed, duplicates may slip through
	Error    string
}

// RunReport summarizes one complete poll cycle
type RunReport struct {
	Feeds []FeedReport
}

// Totals returns the number of entries seen, repeated and created across all feeds
func (r RunReport) Totals() (seen, repeated, created int) {
	for _, f := range r.Feeds {
		seen += f.Seen
		repeated += f.Repeated
		created += f.Created
	}
	return seen, repeated, created
}

// Count returns the number of feeds in the given state
func (r RunReport) Count(state FeedState) int {
	n := 0
	for _, f := range r.Feeds {
		if f.State == state {
			n++
		}
	}
	return n
}
