package detector

import (
	"net/url"
	"strings"

	"github.com/e-ashitey/smart-history-manager/internal/models"
)

// Classify maps a URL to at most one intent rule. The lower-cased
// path+query is scanned against IntentRules in declared order and the
// first matching pattern wins; it is deliberately not longest-match or
// highest-score. Unparsable URLs fail closed and return nil.
func Classify(rawURL string) *models.IntentRule {
	target := pathQuery(rawURL)
	if target == "" {
		return nil
	}
	for i := range IntentRules {
		if strings.Contains(target, IntentRules[i].MatchPattern) {
			return &IntentRules[i]
		}
	}
	return nil
}

// RootDomain returns a naive registrable-domain approximation: the last
// two dot-separated hostname labels. This mishandles multi-label public
// suffixes ("example.co.uk" collapses to "co.uk"), but stored
// preferences and ignore counters are keyed on this form, so the
// behavior is kept for compatibility. Unparsable URLs return "".
func RootDomain(rawURL string) string {
	return rootOfHost(hostOf(rawURL))
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func rootOfHost(host string) string {
	if host == "" {
		return ""
	}
	labels := strings.Split(host, ".")
	if len(labels) > 2 {
		labels = labels[len(labels)-2:]
	}
	return strings.Join(labels, ".")
}

func pathQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	target := u.Path
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return strings.ToLower(target)
}
