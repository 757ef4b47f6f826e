// Package detector flags browsing-history time windows that likely mix
// personal browsing into a work context. The whole package is pure and
// synchronous: it owns no storage, performs no I/O, and given identical
// inputs always produces identical output, so it is safe to call
// concurrently. Preference and ignore-counter maps are consistent
// snapshots supplied by the caller.
package detector

import (
	"sort"
	"strconv"
	"strings"

	"github.com/e-ashitey/smart-history-manager/internal/models"
)

// DetectSuggestions segments items into sessions, scores each session
// against the supplied preference and ignore-counter snapshots, and
// returns at most MaxSuggestions suggestions ranked by score descending
// (most recent session start first on ties).
//
// Sessions under MinSessionSize items are never scored. Sessions that
// score below ConfidenceThreshold are dropped, as are sessions with no
// category evidence at all: crossing the threshold on variety, timing
// and navigation speed alone is not enough to bother the user.
func DetectSuggestions(items []models.HistoryItem, prefs map[string]string, ignores map[string]int) []models.Suggestion {
	suggestions := []models.Suggestion{}
	for _, session := range Segment(items) {
		if len(session) < MinSessionSize {
			continue
		}
		scored := ScoreSession(session, prefs, ignores)
		if scored.Score < ConfidenceThreshold || len(scored.Categories) == 0 {
			continue
		}

		start := session[0].LastVisitTime
		urls := make([]string, len(session))
		for i, item := range session {
			urls[i] = item.URL
		}

		suggestions = append(suggestions, models.Suggestion{
			ID:           "session_" + strconv.FormatInt(start, 10),
			SessionStart: start,
			SessionEnd:   session[len(session)-1].LastVisitTime,
			TotalItems:   len(session),
			Score:        scored.Score,
			Confidence:   confidenceTier(scored.Score),
			Categories:   scored.Categories,
			Domains:      scored.Domains,
			URLs:         urls,
			Breakdown:    scored.Breakdown,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].SessionStart > suggestions[j].SessionStart
	})
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

// confidenceTier buckets a score for display.
func confidenceTier(score float64) string {
	switch {
	case score >= 9:
		return "high"
	case score >= 6:
		return "medium"
	default:
		return "low"
	}
}

// RecordIgnore returns a copy of counts with each domain's root-domain
// counter incremented by one. It never mutates its input; persisting
// the updated map is the caller's job, triggered only by an explicit
// user dismissal, never by detection itself.
func RecordIgnore(suggestionID string, domains []string, counts map[string]int) map[string]int {
	updated := make(map[string]int, len(counts)+len(domains))
	for domain, count := range counts {
		updated[domain] = count
	}
	for _, domain := range domains {
		root := rootOfHost(strings.ToLower(domain))
		if root == "" {
			continue
		}
		updated[root]++
	}
	return updated
}
