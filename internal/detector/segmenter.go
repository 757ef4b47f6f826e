package detector

import (
	"sort"

	"github.com/e-ashitey/smart-history-manager/internal/models"
)

// Segment partitions history items into gap-delimited sessions. Items
// missing a URL or visit time are dropped, the rest are sorted
// ascending by time, and a new session starts whenever the gap to the
// previous item exceeds SessionGapMS. Undersized sessions are still
// returned; discarding them is the ranker's call.
func Segment(items []models.HistoryItem) []models.Session {
	valid := make([]models.HistoryItem, 0, len(items))
	for _, item := range items {
		if item.URL == "" || item.LastVisitTime == 0 {
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		return []models.Session{}
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].LastVisitTime < valid[j].LastVisitTime
	})

	sessions := []models.Session{}
	current := models.Session{valid[0]}
	for _, item := range valid[1:] {
		if item.LastVisitTime-current[len(current)-1].LastVisitTime > SessionGapMS {
			sessions = append(sessions, current)
			current = models.Session{item}
		} else {
			current = append(current, item)
		}
	}
	return append(sessions, current)
}
