package repositories

import (
	"testing"

	"github.com/e-ashitey/smart-history-manager/internal/models"
	"github.com/e-ashitey/smart-history-manager/internal/storage"
)

func newTestStorage(t *testing.T) *storage.AppendLogStorage {
	t.Helper()
	als := storage.NewAppendLogStorage(t.TempDir())
	t.Cleanup(func() { als.Close() })
	return als
}

func TestHistoryRepository_SyncAndDedup(t *testing.T) {
	repo := NewHistoryRepository(newTestStorage(t))

	synced, err := repo.Sync([]models.HistoryItem{
		{URL: "https://a.com/1", Title: "A", LastVisitTime: 1000, VisitCount: 1},
		{URL: "https://b.com/2", Title: "B", LastVisitTime: 2000, VisitCount: 1},
	})
	if err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}
	if synced != 2 {
		t.Fatalf("Expected 2 synced items, got %d", synced)
	}

	// Re-sync the same URL with a newer visit plus a stale duplicate.
	synced, err = repo.Sync([]models.HistoryItem{
		{URL: "https://a.com/1", Title: "A", LastVisitTime: 5000, VisitCount: 2},
		{URL: "https://b.com/2", Title: "B", LastVisitTime: 2000, VisitCount: 1},
	})
	if err != nil {
		t.Fatalf("Failed to re-sync: %v", err)
	}
	if synced != 1 {
		t.Fatalf("Expected only the newer visit to sync, got %d", synced)
	}

	items, err := repo.GetAll()
	if err != nil {
		t.Fatalf("Failed to get history: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 deduplicated items, got %d", len(items))
	}
	// Ascending by visit time, newest visit kept per URL.
	if items[0].URL != "https://b.com/2" || items[1].LastVisitTime != 5000 {
		t.Fatalf("Unexpected merged history: %v", items)
	}

	count, err := repo.GetCount()
	if err != nil || count != 2 {
		t.Fatalf("Expected count 2, got %d (err %v)", count, err)
	}
}

func TestHistoryRepository_SyncSkipsInvalid(t *testing.T) {
	repo := NewHistoryRepository(newTestStorage(t))

	synced, err := repo.Sync([]models.HistoryItem{
		{URL: "", LastVisitTime: 1000},
		{URL: "https://a.com/1", LastVisitTime: 0},
		{URL: "https://a.com/2", LastVisitTime: 3000, VisitCount: 1},
	})
	if err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}
	if synced != 1 {
		t.Fatalf("Expected 1 valid item, got %d", synced)
	}
}

func TestHistoryRepository_GetRange(t *testing.T) {
	repo := NewHistoryRepository(newTestStorage(t))

	_, err := repo.Sync([]models.HistoryItem{
		{URL: "https://a.com/1", LastVisitTime: 1000, VisitCount: 1},
		{URL: "https://a.com/2", LastVisitTime: 2000, VisitCount: 1},
		{URL: "https://a.com/3", LastVisitTime: 3000, VisitCount: 1},
	})
	if err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}

	// Bounds are inclusive on both ends.
	items, err := repo.GetRange(1000, 2000)
	if err != nil {
		t.Fatalf("Failed to get range: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items in window, got %d", len(items))
	}

	items, err = repo.GetRange(4000, 5000)
	if err != nil {
		t.Fatalf("Failed to get empty range: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("Expected empty window, got %d items", len(items))
	}
}
