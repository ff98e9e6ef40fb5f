package historystore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	domainPlan "github.com/AzielCF/az-planner/domains/plan"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteStore keeps the dedup history in a local sqlite file. The cap is
// global across niches; the oldest record is evicted first.
type SQLiteStore struct {
	mu         sync.Mutex
	db         *sql.DB
	maxRecords int
}

func NewSQLiteStore(storagePath string, maxRecords int) (*SQLiteStore, error) {
	if maxRecords <= 0 {
		maxRecords = 20
	}
	dbPath := fmt.Sprintf("%s/history.db", storagePath)
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on", dbPath))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS content_history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		niche TEXT NOT NULL,
		title TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, maxRecords: maxRecords}, nil
}

func (s *SQLiteStore) Record(ctx context.Context, niche, title string) error {
	niche = strings.TrimSpace(niche)
	title = strings.TrimSpace(title)
	if niche == "" || title == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO content_history (niche, title) VALUES (?, ?)`, niche, title); err != nil {
		return err
	}

	// FIFO eviction down to the cap, oldest first, across all niches.
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM content_history WHERE seq NOT IN (
			SELECT seq FROM content_history ORDER BY seq DESC LIMIT ?
		)`, s.maxRecords); err != nil {
		logrus.WithError(err).Warn("[HISTORY] failed to evict old records")
	}
	return nil
}

func (s *SQLiteStore) Relevant(ctx context.Context, niche string) ([]string, error) {
	niche = strings.TrimSpace(niche)
	if niche == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM content_history WHERE LOWER(niche) = LOWER(?) ORDER BY seq ASC`, niche)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ domainPlan.IHistoryStore = (*SQLiteStore)(nil)
