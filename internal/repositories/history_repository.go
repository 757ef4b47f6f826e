package repositories

import (
	"sort"

	"github.com/e-ashitey/smart-history-manager/internal/models"
	"github.com/e-ashitey/smart-history-manager/internal/storage"
)

type historyRepository struct {
	storage *storage.AppendLogStorage
}

func NewHistoryRepository(storage *storage.AppendLogStorage) HistoryRepository {
	return &historyRepository{storage: storage}
}

// GetAll returns the deduplicated history, one entry per URL keeping
// the most recent visit. The storage layer appends blindly; this is
// where the merge happens.
func (r *historyRepository) GetAll() ([]models.HistoryItem, error) {
	raw, err := r.storage.ReadHistory()
	if err != nil {
		return nil, err
	}

	itemMap := make(map[string]models.HistoryItem, len(raw))
	for _, item := range raw {
		if existing, exists := itemMap[item.URL]; !exists || item.LastVisitTime > existing.LastVisitTime {
			itemMap[item.URL] = item
		}
	}

	items := make([]models.HistoryItem, 0, len(itemMap))
	for _, item := range itemMap {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].LastVisitTime < items[j].LastVisitTime
	})

	return items, nil
}

// GetRange returns history items with start <= lastVisitTime <= end.
func (r *historyRepository) GetRange(start, end int64) ([]models.HistoryItem, error) {
	items, err := r.GetAll()
	if err != nil {
		return nil, err
	}

	var windowed []models.HistoryItem
	for _, item := range items {
		if item.LastVisitTime >= start && item.LastVisitTime <= end {
			windowed = append(windowed, item)
		}
	}

	return windowed, nil
}

func (r *historyRepository) GetCount() (int, error) {
	items, err := r.GetAll()
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Sync merges incoming items, keeping an incoming entry only when its
// URL is new or its visit is more recent than what is stored. Returns
// the number of entries actually taken.
func (r *historyRepository) Sync(items []models.HistoryItem) (int, error) {
	existing, err := r.GetAll()
	if err != nil {
		return 0, err
	}

	latest := make(map[string]int64, len(existing))
	for _, item := range existing {
		latest[item.URL] = item.LastVisitTime
	}

	var fresh []models.HistoryItem
	for _, item := range items {
		if item.URL == "" || item.LastVisitTime == 0 {
			continue
		}
		if seen, exists := latest[item.URL]; exists && item.LastVisitTime <= seen {
			continue
		}
		latest[item.URL] = item.LastVisitTime
		fresh = append(fresh, item)
	}

	if len(fresh) == 0 {
		return 0, nil
	}

	return len(fresh), r.storage.AppendHistory(fresh)
}
