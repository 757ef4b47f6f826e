package repositories

import (
	"github.com/e-ashitey/smart-history-manager/internal/models"
	"github.com/e-ashitey/smart-history-manager/internal/storage"
)

type preferenceRepository struct {
	storage *storage.AppendLogStorage
}

func NewPreferenceRepository(storage *storage.AppendLogStorage) PreferenceRepository {
	return &preferenceRepository{storage: storage}
}

func (r *preferenceRepository) GetAll() (map[string]string, error) {
	prefs, err := r.storage.ReadPreferences()
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(prefs))
	for _, pref := range prefs {
		result[pref.Domain] = pref.Value
	}

	return result, nil
}

func (r *preferenceRepository) Set(domain, value string) error {
	return r.storage.AppendPreference(models.DomainPreference{
		Domain: domain,
		Value:  value,
	})
}

// Delete appends a tombstone entry for the domain.
func (r *preferenceRepository) Delete(domain string) error {
	return r.storage.AppendPreference(models.DomainPreference{
		Domain: domain,
	})
}
