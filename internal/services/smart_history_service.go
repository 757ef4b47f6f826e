package services

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/e-ashitey/smart-history-manager/internal/detector"
	"github.com/e-ashitey/smart-history-manager/internal/models"
	"github.com/e-ashitey/smart-history-manager/internal/repositories"
)

type smartHistoryService struct {
	historyRepo    repositories.HistoryRepository
	preferenceRepo repositories.PreferenceRepository
	ignoreRepo     repositories.IgnoreRepository
	cache          *gocache.Cache
}

func NewSmartHistoryService(
	historyRepo repositories.HistoryRepository,
	preferenceRepo repositories.PreferenceRepository,
	ignoreRepo repositories.IgnoreRepository,
	cacheTTL time.Duration,
) SmartHistoryService {
	return &smartHistoryService{
		historyRepo:    historyRepo,
		preferenceRepo: preferenceRepo,
		ignoreRepo:     ignoreRepo,
		cache:          gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// GetSuggestions reads a consistent snapshot of history, preferences
// and ignore counters, then hands everything to the pure detector.
// Results are cached per window; every mutation flushes the cache, so
// repeated extension polls between mutations cost one detection run.
func (s *smartHistoryService) GetSuggestions(start, end int64) ([]models.Suggestion, error) {
	key := fmt.Sprintf("suggestions:%d:%d", start, end)
	if cached, found := s.cache.Get(key); found {
		return cached.([]models.Suggestion), nil
	}

	items, err := s.historyRepo.GetRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to read history window: %w", err)
	}
	prefs, err := s.preferenceRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	ignores, err := s.ignoreRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read ignore counters: %w", err)
	}

	suggestions := detector.DetectSuggestions(items, prefs, ignores)
	s.cache.SetDefault(key, suggestions)

	logrus.WithFields(logrus.Fields{
		"items":       len(items),
		"suggestions": len(suggestions),
	}).Debug("detection run completed")

	return suggestions, nil
}

// IgnoreSuggestion bumps the ignore counters for the suggestion's
// domains. Invoked only by an explicit user dismissal.
func (s *smartHistoryService) IgnoreSuggestion(id string, domains []string) error {
	counts, err := s.ignoreRepo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to read ignore counters: %w", err)
	}

	updated := detector.RecordIgnore(id, domains, counts)
	if err := s.ignoreRepo.WriteAll(updated); err != nil {
		return fmt.Errorf("failed to write ignore counters: %w", err)
	}

	s.cache.Flush()
	return nil
}

func (s *smartHistoryService) GetPreferences() (map[string]string, error) {
	return s.preferenceRepo.GetAll()
}

func (s *smartHistoryService) SetPreference(domain, value string) error {
	if value != models.PreferenceWork && value != models.PreferencePersonal {
		return fmt.Errorf("invalid preference value %q", value)
	}
	if err := s.preferenceRepo.Set(domain, value); err != nil {
		return err
	}

	s.cache.Flush()
	return nil
}

func (s *smartHistoryService) RemovePreference(domain string) error {
	if err := s.preferenceRepo.Delete(domain); err != nil {
		return err
	}

	s.cache.Flush()
	return nil
}

func (s *smartHistoryService) GetHistory(start, end int64) ([]models.HistoryItem, error) {
	return s.historyRepo.GetRange(start, end)
}

func (s *smartHistoryService) GetHistoryCount() (int, error) {
	return s.historyRepo.GetCount()
}

func (s *smartHistoryService) SyncHistory(items []models.HistoryItem) (int, error) {
	synced, err := s.historyRepo.Sync(items)
	if err != nil {
		return 0, err
	}

	if synced > 0 {
		s.cache.Flush()
	}
	return synced, nil
}
