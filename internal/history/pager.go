// Package history holds the client-side pagination state for the
// weather lookup history. The remote service owns the data and the
// ordering (newest-first); this package only tracks the skip/limit
// cursor and the accumulated entries.
package history

import (
	"context"
	"errors"

	"weather-console/internal/models"
)

// DefaultLimit is the page size used when none is configured.
const DefaultLimit = 10

// Fetcher returns one page of history entries for the given cursor.
// The pager passes through whatever error it returns.
type Fetcher func(ctx context.Context, skip, limit int) ([]models.HistoryEntry, error)

var errNoFetcher = errors.New("history: nil fetcher")

// Pager accumulates pages of history entries. Not safe for concurrent
// use; callers serialize access per session.
type Pager struct {
	limit   int
	skip    int
	entries []models.HistoryEntry
	hasMore bool
	loaded  bool
}

func NewPager(limit int) *Pager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Pager{limit: limit, hasMore: true}
}

// Refresh replaces the accumulated entries with a fresh first page and
// resets the cursor to zero. Previously loaded later pages are
// discarded.
func (p *Pager) Refresh(ctx context.Context, fetch Fetcher) error {
	if fetch == nil {
		return errNoFetcher
	}
	page, err := fetch(ctx, 0, p.limit)
	if err != nil {
		return err
	}
	p.entries = page
	p.skip = 0
	p.hasMore = len(page) == p.limit
	p.loaded = true
	return nil
}

// LoadMore fetches the next page and appends it to the accumulated
// entries. The cursor only advances on a successful fetch, so a failed
// load can be retried without skipping a page.
func (p *Pager) LoadMore(ctx context.Context, fetch Fetcher) error {
	if fetch == nil {
		return errNoFetcher
	}
	if !p.loaded {
		return p.Refresh(ctx, fetch)
	}
	if !p.hasMore {
		return nil
	}
	next := p.skip + p.limit
	page, err := fetch(ctx, next, p.limit)
	if err != nil {
		return err
	}
	p.skip = next
	p.entries = append(p.entries, page...)
	p.hasMore = len(page) == p.limit
	return nil
}

// Entries returns the accumulated entries in arrival order.
func (p *Pager) Entries() []models.HistoryEntry {
	return p.entries
}

// HasMore reports whether another page is believed to remain. This is
// the full-page heuristic: a last page exactly equal to the limit with
// zero items remaining misreports true once, and the next load turns
// it false. The service exposes no total count to do better with.
func (p *Pager) HasMore() bool {
	return p.hasMore
}

// Loaded reports whether an initial page fetch has happened.
func (p *Pager) Loaded() bool {
	return p.loaded
}

// Cursor returns the current skip/limit pair, for logging and tests.
func (p *Pager) Cursor() (skip, limit int) {
	return p.skip, p.limit
}
