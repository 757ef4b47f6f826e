package repositories

import (
	"github.com/e-ashitey/smart-history-manager/internal/models"
	"github.com/e-ashitey/smart-history-manager/internal/storage"
)

type ignoreRepository struct {
	storage *storage.AppendLogStorage
}

func NewIgnoreRepository(storage *storage.AppendLogStorage) IgnoreRepository {
	return &ignoreRepository{storage: storage}
}

func (r *ignoreRepository) GetAll() (map[string]int, error) {
	counters, err := r.storage.ReadIgnoreCounts()
	if err != nil {
		return nil, err
	}

	result := make(map[string]int, len(counters))
	for _, counter := range counters {
		result[counter.Domain] = counter.Count
	}

	return result, nil
}

// WriteAll persists only the counters that changed against the stored
// state, so one dismissal appends a handful of log lines rather than
// the whole map.
func (r *ignoreRepository) WriteAll(counts map[string]int) error {
	current, err := r.GetAll()
	if err != nil {
		return err
	}

	var changed []models.IgnoreCounter
	for domain, count := range counts {
		if current[domain] != count {
			changed = append(changed, models.IgnoreCounter{Domain: domain, Count: count})
		}
	}

	if len(changed) == 0 {
		return nil
	}

	return r.storage.AppendIgnoreCounts(changed)
}
