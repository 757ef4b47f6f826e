package detector

import "testing"

func TestClassify_FirstMatchWins(t *testing.T) {
	// "/reels/abc" contains both "/reels" and "/reel"; the earlier
	// table entry must win, deterministically.
	rule := Classify("https://www.instagram.com/reels/abc")
	if rule == nil {
		t.Fatal("Expected a rule match for /reels path")
	}
	if rule.MatchPattern != "/reels" {
		t.Fatalf("Expected earlier pattern /reels to win, got %s", rule.MatchPattern)
	}

	rule = Classify("https://www.instagram.com/reel/xyz")
	if rule == nil {
		t.Fatal("Expected a rule match for /reel path")
	}
	if rule.MatchPattern != "/reel" {
		t.Fatalf("Expected pattern /reel, got %s", rule.MatchPattern)
	}
}

func TestClassify_PathAndQuery(t *testing.T) {
	rule := Classify("https://www.youtube.com/watch?v=abc123")
	if rule == nil {
		t.Fatal("Expected a rule match for watch URL")
	}
	if rule.Category != "entertainment" || rule.Score != 2 {
		t.Fatalf("Expected entertainment/2, got %s/%d", rule.Category, rule.Score)
	}

	// Patterns match inside the query string too.
	rule = Classify("https://example.com/redirect?next=/checkout")
	if rule == nil {
		t.Fatal("Expected a rule match inside the query string")
	}
	if rule.MatchPattern != "/checkout" {
		t.Fatalf("Expected /checkout, got %s", rule.MatchPattern)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	rule := Classify("https://www.youtube.com/WATCH?v=abc")
	if rule == nil {
		t.Fatal("Expected case-insensitive match")
	}
	if rule.MatchPattern != "/watch" {
		t.Fatalf("Expected /watch, got %s", rule.MatchPattern)
	}
}

func TestClassify_NegativeRules(t *testing.T) {
	rule := Classify("https://github.com/acme/widget/pull/42")
	if rule == nil {
		t.Fatal("Expected a rule match for pull request URL")
	}
	if rule.Score >= 0 || rule.Category != "work" {
		t.Fatalf("Expected negative work rule, got %s/%d", rule.Category, rule.Score)
	}
}

func TestClassify_FailsClosed(t *testing.T) {
	cases := []string{
		"http://exa mple.com/watch",
		"not a url",
		"/watch?v=abc",
		"",
	}
	for _, raw := range cases {
		if rule := Classify(raw); rule != nil {
			t.Fatalf("Expected nil for %q, got %s", raw, rule.MatchPattern)
		}
	}
}

func TestClassify_NoMatch(t *testing.T) {
	if rule := Classify("https://example.com/about"); rule != nil {
		t.Fatalf("Expected no rule for /about, got %s", rule.MatchPattern)
	}
}

func TestRootDomain(t *testing.T) {
	cases := []struct {
		rawURL string
		want   string
	}{
		{"https://www.youtube.com/watch?v=1", "youtube.com"},
		{"https://mail.google.com/mail/u/0", "google.com"},
		{"https://example.com/", "example.com"},
		{"https://localhost:8080/x", "localhost"},
		// Known quirk: multi-label public suffixes collapse to the
		// suffix itself. Kept because stored preferences are keyed on
		// this form.
		{"https://news.example.co.uk/story", "co.uk"},
		{"http://exa mple.com/", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := RootDomain(c.rawURL); got != c.want {
			t.Fatalf("RootDomain(%q) = %q, want %q", c.rawURL, got, c.want)
		}
	}
}
