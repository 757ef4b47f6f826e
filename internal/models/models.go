package models

import "time"

// HistoryItem is a single browsing history entry as reported by the
// extension. LastVisitTime is epoch milliseconds, matching what the
// browser history API hands out.
type HistoryItem struct {
	URL           string `json:"url"`
	Title         string `json:"title,omitempty"`
	LastVisitTime int64  `json:"lastVisitTime"`
	VisitCount    int    `json:"visitCount"`
}

// Session is a run of history items ordered strictly ascending by time,
// with no inter-item gap above the segmentation threshold.
type Session []HistoryItem

// IntentRule classifies a URL path by substring match. Negative scores
// mark work activity, positive scores mark personal activity.
type IntentRule struct {
	MatchPattern string `json:"matchPattern"`
	Score        int    `json:"score"`
	Category     string `json:"category"`
	Label        string `json:"label"`
}

// CategoryMeta is display metadata for a rule category.
type CategoryMeta struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// CategoryHit aggregates positive rule matches for one category within
// a session.
type CategoryHit struct {
	Category string   `json:"category"`
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Count    int      `json:"count"`
	URLs     []string `json:"urls"`
}

// ScoreBreakdown keeps each scoring component visible for debugging and
// for the extension's explanation UI.
type ScoreBreakdown struct {
	URLIntentScore  int     `json:"urlIntentScore"`
	WorkSignalScore int     `json:"workSignalScore"`
	DomainVariety   float64 `json:"domainVariety"`
	RapidNavigation int     `json:"rapidNavigation"`
	Timing          int     `json:"timing"`
}

// ScoredSession is the scorer's output for a single session.
type ScoredSession struct {
	Score      float64        `json:"score"`
	Categories []CategoryHit  `json:"categories"`
	Domains    []string       `json:"domains"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
}

// Suggestion is a session surfaced to the user as likely personal
// browsing in a work context. ID is derived from the session start so
// repeated detections over the same history produce the same ID.
type Suggestion struct {
	ID           string         `json:"id"`
	SessionStart int64          `json:"sessionStart"`
	SessionEnd   int64          `json:"sessionEnd"`
	TotalItems   int            `json:"totalItems"`
	Score        float64        `json:"score"`
	Confidence   string         `json:"confidence"`
	Categories   []CategoryHit  `json:"categories"`
	Domains      []string       `json:"domains"`
	URLs         []string       `json:"urls"`
	Breakdown    ScoreBreakdown `json:"breakdown"`
}

// Domain preference values.
const (
	PreferenceWork     = "work"
	PreferencePersonal = "personal"
)

// DomainPreference is a stored root-domain preference. An empty Value
// acts as a tombstone in the delta log.
type DomainPreference struct {
	Domain    string    `json:"domain"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IgnoreCounter tracks how often suggestions for a root domain were
// dismissed. Delta log entries carry absolute counts, last write wins.
type IgnoreCounter struct {
	Domain    string    `json:"domain"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}
