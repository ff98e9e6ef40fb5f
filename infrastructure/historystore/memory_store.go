package historystore

import (
	"context"
	"strings"
	"sync"

	domainPlan "github.com/AzielCF/az-planner/domains/plan"
)

// MemoryStore is the in-memory backend, used in tests and ephemeral runs.
// Same cap/evict/filter semantics as the sqlite backend.
type MemoryStore struct {
	mu         sync.Mutex
	records    []domainPlan.HistoryRecord
	maxRecords int
}

func NewMemoryStore(maxRecords int) *MemoryStore {
	if maxRecords <= 0 {
		maxRecords = 20
	}
	return &MemoryStore{maxRecords: maxRecords}
}

func (s *MemoryStore) Record(ctx context.Context, niche, title string) error {
	niche = strings.TrimSpace(niche)
	title = strings.TrimSpace(title)
	if niche == "" || title == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, domainPlan.HistoryRecord{Niche: niche, Title: title})
	if len(s.records) > s.maxRecords {
		s.records = s.records[len(s.records)-s.maxRecords:]
	}
	return nil
}

func (s *MemoryStore) Relevant(ctx context.Context, niche string) ([]string, error) {
	niche = strings.TrimSpace(niche)
	if niche == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var titles []string
	for _, r := range s.records {
		if strings.EqualFold(r.Niche, niche) {
			titles = append(titles, r.Title)
		}
	}
	return titles, nil
}

var _ domainPlan.IHistoryStore = (*MemoryStore)(nil)
