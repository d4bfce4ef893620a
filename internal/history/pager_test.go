package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"weather-console/internal/models"
)

// makeEntries builds n distinct entries so append order is observable.
func makeEntries(start, n int) []models.HistoryEntry {
	entries := make([]models.HistoryEntry, n)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := range entries {
		entries[i] = models.HistoryEntry{
			Lat:         float64(start + i),
			Lon:         float64(start + i),
			RequestedAt: base.Add(-time.Duration(start+i) * time.Minute),
			Weather:     models.HistoryWeather{TempC: 20, Description: "clear sky", Source: "openweather"},
		}
	}
	return entries
}

// pagedFetcher serves entries from a fixed backing slice and records
// the cursors it was called with.
func pagedFetcher(backing []models.HistoryEntry, calls *[][2]int) Fetcher {
	return func(ctx context.Context, skip, limit int) ([]models.HistoryEntry, error) {
		*calls = append(*calls, [2]int{skip, limit})
		if skip >= len(backing) {
			return nil, nil
		}
		end := skip + limit
		if end > len(backing) {
			end = len(backing)
		}
		return backing[skip:end], nil
	}
}

func TestPager_FullPageMeansMore(t *testing.T) {
	var calls [][2]int
	fetch := pagedFetcher(makeEntries(0, 25), &calls)
	p := NewPager(10)

	if err := p.Refresh(context.Background(), fetch); err != nil {
		t.Fatalf("Refresh() err = %v", err)
	}
	if len(p.Entries()) != 10 {
		t.Errorf("entries = %d, want 10", len(p.Entries()))
	}
	if !p.HasMore() {
		t.Error("HasMore() = false after full page, want true")
	}
	if calls[0] != [2]int{0, 10} {
		t.Errorf("first fetch cursor = %v, want {0 10}", calls[0])
	}

	if err := p.LoadMore(context.Background(), fetch); err != nil {
		t.Fatalf("LoadMore() err = %v", err)
	}
	if calls[1] != [2]int{10, 10} {
		t.Errorf("second fetch cursor = %v, want {10 10}", calls[1])
	}
	if len(p.Entries()) != 20 {
		t.Errorf("entries = %d, want 20 (appended, not replaced)", len(p.Entries()))
	}
	if !p.HasMore() {
		t.Error("HasMore() = false after second full page, want true")
	}
}

func TestPager_ShortPageEndsPagination(t *testing.T) {
	var calls [][2]int
	fetch := pagedFetcher(makeEntries(0, 7), &calls)
	p := NewPager(10)

	if err := p.Refresh(context.Background(), fetch); err != nil {
		t.Fatalf("Refresh() err = %v", err)
	}
	if len(p.Entries()) != 7 {
		t.Errorf("entries = %d, want 7", len(p.Entries()))
	}
	if p.HasMore() {
		t.Error("HasMore() = true after short page, want false")
	}

	// LoadMore on an exhausted pager must not fetch again.
	if err := p.LoadMore(context.Background(), fetch); err != nil {
		t.Fatalf("LoadMore() err = %v", err)
	}
	if len(calls) != 1 {
		t.Errorf("fetch calls = %d, want 1", len(calls))
	}
}

func TestPager_ExactMultipleHeuristic(t *testing.T) {
	// 20 items with limit 10: the second page is full, so HasMore
	// misreports true once; the third (empty) page turns it false.
	var calls [][2]int
	fetch := pagedFetcher(makeEntries(0, 20), &calls)
	p := NewPager(10)

	if err := p.Refresh(context.Background(), fetch); err != nil {
		t.Fatalf("Refresh() err = %v", err)
	}
	if err := p.LoadMore(context.Background(), fetch); err != nil {
		t.Fatalf("LoadMore() err = %v", err)
	}
	if !p.HasMore() {
		t.Fatal("HasMore() = false after exact-multiple page, heuristic should say true")
	}
	if err := p.LoadMore(context.Background(), fetch); err != nil {
		t.Fatalf("LoadMore() err = %v", err)
	}
	if p.HasMore() {
		t.Error("HasMore() = true after empty page, want false")
	}
	if len(p.Entries()) != 20 {
		t.Errorf("entries = %d, want 20", len(p.Entries()))
	}
}

func TestPager_RefreshReplacesAccumulation(t *testing.T) {
	var calls [][2]int
	fetch := pagedFetcher(makeEntries(0, 25), &calls)
	p := NewPager(10)

	_ = p.Refresh(context.Background(), fetch)
	_ = p.LoadMore(context.Background(), fetch)
	if len(p.Entries()) != 20 {
		t.Fatalf("entries = %d, want 20 before refresh", len(p.Entries()))
	}

	if err := p.Refresh(context.Background(), fetch); err != nil {
		t.Fatalf("Refresh() err = %v", err)
	}
	if len(p.Entries()) != 10 {
		t.Errorf("entries = %d after refresh, want exactly the first page", len(p.Entries()))
	}
	if skip, _ := p.Cursor(); skip != 0 {
		t.Errorf("skip = %d after refresh, want 0", skip)
	}
}

func TestPager_FailedLoadDoesNotAdvanceCursor(t *testing.T) {
	boom := errors.New("boom")
	failing := func(ctx context.Context, skip, limit int) ([]models.HistoryEntry, error) {
		return nil, boom
	}
	var calls [][2]int
	fetch := pagedFetcher(makeEntries(0, 25), &calls)

	p := NewPager(10)
	_ = p.Refresh(context.Background(), fetch)

	if err := p.LoadMore(context.Background(), failing); !errors.Is(err, boom) {
		t.Fatalf("LoadMore() err = %v, want boom", err)
	}
	if skip, _ := p.Cursor(); skip != 0 {
		t.Errorf("skip = %d after failed load, want 0", skip)
	}

	// Retry succeeds and fetches the page that failed.
	if err := p.LoadMore(context.Background(), fetch); err != nil {
		t.Fatalf("retry LoadMore() err = %v", err)
	}
	if calls[len(calls)-1] != [2]int{10, 10} {
		t.Errorf("retry cursor = %v, want {10 10}", calls[len(calls)-1])
	}
}

func TestPager_LoadMoreBeforeRefreshLoadsFirstPage(t *testing.T) {
	var calls [][2]int
	fetch := pagedFetcher(makeEntries(0, 5), &calls)
	p := NewPager(10)

	if err := p.LoadMore(context.Background(), fetch); err != nil {
		t.Fatalf("LoadMore() err = %v", err)
	}
	if calls[0] != [2]int{0, 10} {
		t.Errorf("cursor = %v, want {0 10}", calls[0])
	}
	if len(p.Entries()) != 5 {
		t.Errorf("entries = %d, want 5", len(p.Entries()))
	}
}

func TestNewPager_DefaultLimit(t *testing.T) {
	p := NewPager(0)
	if _, limit := p.Cursor(); limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", limit, DefaultLimit)
	}
}
