package detector

import "github.com/e-ashitey/smart-history-manager/internal/models"

// Tuning constants. These are calibrated against real browsing data;
// changing any of them changes which sessions surface, so they are
// treated as fixed configuration rather than knobs.
const (
	// SessionGapMS is the idle gap that closes a session (30 minutes).
	SessionGapMS int64 = 1_800_000

	// MinSessionSize is the minimum item count before a session is
	// worth scoring. Enforced by the ranker, not the segmenter:
	// segmentation itself is size-agnostic, the ranker just refuses to
	// spend scoring effort on noise.
	MinSessionSize = 5

	// ConfidenceThreshold is the minimum score to surface a suggestion.
	ConfidenceThreshold = 4.0

	// AutoWorkIgnoreCount is how many times a domain's suggestions must
	// be dismissed before the domain is treated as implicit work.
	AutoWorkIgnoreCount = 3

	// WorkWeightMultiplier dampens work evidence so one work-leaning
	// item cannot fully cancel a session while several accumulate to
	// suppress it.
	WorkWeightMultiplier = 0.6

	// MaxSuggestions bounds the ranked suggestion list.
	MaxSuggestions = 5
)

// Per-item weights for the precedence tiers.
const (
	workPreferenceWeight    = 3
	personalPreferenceBoost = 1
	autoWorkWeight          = 2
)

// IntentRules is scanned in order and the first matching pattern wins,
// so order is load-bearing: more specific patterns must come before
// their prefixes ("/reels" before "/reel").
var IntentRules = []models.IntentRule{
	// entertainment
	{MatchPattern: "/watch", Score: 2, Category: "entertainment", Label: "Watching videos"},
	{MatchPattern: "/shorts", Score: 2, Category: "entertainment", Label: "Watching shorts"},
	{MatchPattern: "/reels", Score: 2, Category: "entertainment", Label: "Watching reels"},
	{MatchPattern: "/reel", Score: 2, Category: "entertainment", Label: "Watching reels"},
	{MatchPattern: "/trending", Score: 2, Category: "entertainment", Label: "Browsing trending"},
	{MatchPattern: "/browse", Score: 2, Category: "entertainment", Label: "Browsing a catalog"},
	{MatchPattern: "/title/", Score: 2, Category: "entertainment", Label: "Picking something to watch"},
	{MatchPattern: "/gaming", Score: 2, Category: "entertainment", Label: "Browsing gaming"},
	{MatchPattern: "/playlist", Score: 1, Category: "entertainment", Label: "Queueing a playlist"},
	{MatchPattern: "/videos", Score: 1, Category: "entertainment", Label: "Browsing videos"},
	{MatchPattern: "/clip", Score: 1, Category: "entertainment", Label: "Watching clips"},
	// social
	{MatchPattern: "/feed", Score: 1, Category: "social", Label: "Scrolling a feed"},
	{MatchPattern: "/explore", Score: 1, Category: "social", Label: "Exploring posts"},
	{MatchPattern: "/status/", Score: 1, Category: "social", Label: "Reading a thread"},
	{MatchPattern: "/stories", Score: 1, Category: "social", Label: "Viewing stories"},
	{MatchPattern: "/friends", Score: 1, Category: "social", Label: "Checking friends"},
	{MatchPattern: "/notifications", Score: 1, Category: "social", Label: "Checking notifications"},
	{MatchPattern: "/hashtag", Score: 1, Category: "social", Label: "Browsing a hashtag"},
	{MatchPattern: "/groups/", Score: 1, Category: "social", Label: "Browsing groups"},
	// shopping
	{MatchPattern: "/cart", Score: 2, Category: "shopping", Label: "Reviewing a cart"},
	{MatchPattern: "/checkout", Score: 2, Category: "shopping", Label: "Checking out"},
	{MatchPattern: "/wishlist", Score: 2, Category: "shopping", Label: "Browsing a wishlist"},
	{MatchPattern: "/gp/product", Score: 2, Category: "shopping", Label: "Viewing a product"},
	{MatchPattern: "/dp/", Score: 2, Category: "shopping", Label: "Viewing a product"},
	{MatchPattern: "/deal", Score: 2, Category: "shopping", Label: "Hunting deals"},
	{MatchPattern: "/offers", Score: 1, Category: "shopping", Label: "Browsing offers"},
	// work (negative scores suppress the session)
	{MatchPattern: "/pull", Score: -2, Category: "work", Label: "Reviewing a pull request"},
	{MatchPattern: "/merge_requests", Score: -2, Category: "work", Label: "Reviewing a merge request"},
	{MatchPattern: "/issues", Score: -2, Category: "work", Label: "Triaging issues"},
	{MatchPattern: "/docs", Score: -2, Category: "work", Label: "Reading documentation"},
	{MatchPattern: "/admin", Score: -2, Category: "work", Label: "Administering a service"},
	{MatchPattern: "/dashboard", Score: -2, Category: "work", Label: "Checking a dashboard"},
	{MatchPattern: "/console", Score: -2, Category: "work", Label: "Using a console"},
	{MatchPattern: "/wiki", Score: -1, Category: "work", Label: "Reading a wiki"},
}

// Categories maps category names to display metadata. Unknown
// categories fall back to the raw name and a generic link glyph.
var Categories = map[string]models.CategoryMeta{
	"entertainment": {Label: "Entertainment", Icon: "🎬"},
	"social":        {Label: "Social Media", Icon: "💬"},
	"shopping":      {Label: "Shopping", Icon: "🛒"},
	"work":          {Label: "Work", Icon: "💼"},
}

const genericIcon = "🔗"

func categoryMeta(category string) models.CategoryMeta {
	if meta, ok := Categories[category]; ok {
		return meta
	}
	return models.CategoryMeta{Label: category, Icon: genericIcon}
}
