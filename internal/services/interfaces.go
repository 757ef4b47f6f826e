package services

import "github.com/e-ashitey/smart-history-manager/internal/models"

// SmartHistoryService is the application surface behind the HTTP
// handlers. Detection is read-only; the ignore and preference methods
// are the only paths that mutate stored detection state.
type SmartHistoryService interface {
	GetSuggestions(start, end int64) ([]models.Suggestion, error)
	IgnoreSuggestion(id string, domains []string) error

	GetPreferences() (map[string]string, error)
	SetPreference(domain, value string) error
	RemovePreference(domain string) error

	GetHistory(start, end int64) ([]models.HistoryItem, error)
	GetHistoryCount() (int, error)
	SyncHistory(items []models.HistoryItem) (int, error)
}
