package plan

import "context"

// HistoryRecord is a (niche, title) pair used only as a dedup hint for the
// generator. The log is capped globally; eviction is FIFO, not niche-aware.
type HistoryRecord struct {
	Niche string `json:"niche"`
	Title string `json:"title"`
}

type IHistoryStore interface {
	Record(ctx context.Context, niche, title string) error
	// Relevant returns the titles recorded for a niche, matched
	// case-insensitively, oldest first.
	Relevant(ctx context.Context, niche string) ([]string, error)
}
