package detector

import (
	"math"
	"sort"
	"time"

	"github.com/e-ashitey/smart-history-manager/internal/models"
)

// itemOutcome is the resolved precedence decision for one history item.
// Exactly one tier applies per item, evaluated in fixed order:
//
//  1. explicit "work" preference: work weight only, no rule scan
//  2. explicit "personal" preference: intent boost, rule scan still runs
//  3. adaptive memory (>= AutoWorkIgnoreCount dismissals): work weight
//     only, no rule scan
//  4. rule classification
//
// The "personal" tier is intentionally asymmetric with "work": it
// boosts and continues, it does not short-circuit. That matches long
// observed behavior; do not "fix" it without flagging.
type itemOutcome struct {
	workWeight   int
	intentWeight int
	rule         *models.IntentRule
}

func evaluateItem(item models.HistoryItem, host, root string, prefs map[string]string, ignores map[string]int) itemOutcome {
	switch preferenceFor(prefs, host, root) {
	case models.PreferenceWork:
		return itemOutcome{workWeight: workPreferenceWeight}
	case models.PreferencePersonal:
		return itemOutcome{intentWeight: personalPreferenceBoost, rule: Classify(item.URL)}
	}
	if root != "" && ignores[root] >= AutoWorkIgnoreCount {
		return itemOutcome{workWeight: autoWorkWeight}
	}
	return itemOutcome{rule: Classify(item.URL)}
}

// preferenceFor looks up an explicit preference by exact hostname
// first, falling back to the root domain.
func preferenceFor(prefs map[string]string, host, root string) string {
	if host == "" {
		return ""
	}
	if v, ok := prefs[host]; ok {
		return v
	}
	return prefs[root]
}

// ScoreSession folds per-item signals and session-level features into a
// single confidence score plus a categorized breakdown. It is pure: the
// preference and ignore maps are read-only snapshots.
func ScoreSession(session models.Session, prefs map[string]string, ignores map[string]int) models.ScoredSession {
	if len(session) == 0 {
		return models.ScoredSession{Categories: []models.CategoryHit{}, Domains: []string{}}
	}

	var intentScore, workScore int
	domains := map[string]struct{}{}
	hits := map[string]*models.CategoryHit{}
	hitOrder := []string{}

	for _, item := range session {
		host := hostOf(item.URL)
		root := rootOfHost(host)
		if root != "" {
			domains[root] = struct{}{}
		}

		out := evaluateItem(item, host, root, prefs, ignores)
		workScore += out.workWeight
		intentScore += out.intentWeight
		if out.rule == nil {
			continue
		}
		if out.rule.Score < 0 {
			workScore += -out.rule.Score
			continue
		}
		intentScore += out.rule.Score
		hit, ok := hits[out.rule.Category]
		if !ok {
			meta := categoryMeta(out.rule.Category)
			hit = &models.CategoryHit{Category: out.rule.Category, Label: meta.Label, Icon: meta.Icon}
			hits[out.rule.Category] = hit
			hitOrder = append(hitOrder, out.rule.Category)
		}
		hit.Count++
		hit.URLs = append(hit.URLs, item.URL)
	}

	variety := math.Min(float64(len(domains))/5.0, 2.0)
	rapid := rapidNavigation(session)
	timing := workHoursTiming(session)

	score := float64(intentScore) + variety + float64(rapid) + float64(timing) - float64(workScore)*WorkWeightMultiplier
	if score < 0 {
		score = 0
	}

	categories := make([]models.CategoryHit, 0, len(hitOrder))
	for _, name := range hitOrder {
		categories = append(categories, *hits[name])
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Count > categories[j].Count
	})

	domainList := make([]string, 0, len(domains))
	for d := range domains {
		domainList = append(domainList, d)
	}
	sort.Strings(domainList)

	return models.ScoredSession{
		Score:      score,
		Categories: categories,
		Domains:    domainList,
		Breakdown: models.ScoreBreakdown{
			URLIntentScore:  intentScore,
			WorkSignalScore: workScore,
			DomainVariety:   variety,
			RapidNavigation: rapid,
			Timing:          timing,
		},
	}
}

// rapidNavigation tiers the session's pages-per-minute rate: 0 at or
// below 3 ppm, 1 above 3, 2 above 8. Sessions under 3 items are too
// short to call rapid. A zero-duration burst divides to +Inf and lands
// in the top tier, which is the intended reading of such a burst.
func rapidNavigation(session models.Session) int {
	if len(session) < 3 {
		return 0
	}
	durationMinutes := float64(session[len(session)-1].LastVisitTime-session[0].LastVisitTime) / 60_000.0
	pagesPerMinute := float64(len(session)) / durationMinutes
	switch {
	case pagesPerMinute > 8:
		return 2
	case pagesPerMinute > 3:
		return 1
	default:
		return 0
	}
}

// workHoursTiming returns 1 when the session starts on a weekday
// between 09:00 and 18:00 local time.
func workHoursTiming(session models.Session) int {
	start := time.UnixMilli(session[0].LastVisitTime)
	wd := start.Weekday()
	if wd >= time.Monday && wd <= time.Friday && start.Hour() >= 9 && start.Hour() < 18 {
		return 1
	}
	return 0
}
