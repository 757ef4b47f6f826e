package repositories

import (
	"github.com/e-ashitey/smart-history-manager/internal/models"
)

type HistoryRepository interface {
	GetAll() ([]models.HistoryItem, error)
	GetRange(start, end int64) ([]models.HistoryItem, error)
	GetCount() (int, error)
	Sync(items []models.HistoryItem) (int, error)
}

type PreferenceRepository interface {
	GetAll() (map[string]string, error)
	Set(domain, value string) error
	Delete(domain string) error
}

type IgnoreRepository interface {
	GetAll() (map[string]int, error)
	WriteAll(counts map[string]int) error
}
