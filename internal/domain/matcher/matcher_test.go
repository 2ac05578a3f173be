package matcher

import (
	"math"
	"testing"
)

func testCatalog() []QA {
	return []QA{
		{Question: "What are your business hours?", Answer: "Monday to Friday, 9 AM to 6 PM EST."},
		{Question: "How do I reset my password?", Answer: "Click 'Forgot password' on the login page."},
		{Question: "Do you offer refunds?", Answer: "We offer a 30-day money-back guarantee."},
	}
}

func TestMatchIdenticalQuestion(t *testing.T) {
	m := New(Config{}, testCatalog())

	res := m.Match("How do I reset my password?")
	if !res.Matched {
		t.Fatalf("expected a match, confidence %v", res.Confidence)
	}
	if math.Abs(res.Confidence-1.0) > 1e-12 {
		t.Fatalf("expected confidence 1.0 for identity match got %v", res.Confidence)
	}
	if res.Entry == nil || res.Entry.Answer != "Click 'Forgot password' on the login page." {
		t.Fatalf("unexpected entry %+v", res.Entry)
	}
}

func TestScoreStaysInRange(t *testing.T) {
	m := New(Config{}, testCatalog())
	queries := []string{
		"",
		"?",
		"password",
		"how do i reset my password please",
		"completely unrelated rambling about the weather and more weather",
		"What are your business hours?",
	}
	for _, q := range queries {
		for _, entry := range m.Entries() {
			score := m.Score(q, entry)
			if score < 0 || score > 1 {
				t.Fatalf("score out of range for %q vs %q: %v", q, entry.Question, score)
			}
		}
	}
}

func TestKeywordOverlapIsAsymmetric(t *testing.T) {
	short := tokenSet(tokenize("reset password", false))
	long := tokenSet(tokenize("how do you reset my account password from settings", false))

	forward := keywordOverlap(short, long)
	reverse := keywordOverlap(long, short)
	if forward == reverse {
		t.Fatalf("expected asymmetric overlap, both %v", forward)
	}
	if reverse != 1.0 {
		t.Fatalf("expected full overlap against the short keyword set got %v", reverse)
	}
}

func TestEmptyQueryNeverMatches(t *testing.T) {
	m := New(Config{}, testCatalog())

	for _, q := range []string{"", "   ", "?!."} {
		res := m.Match(q)
		if res.Matched {
			t.Fatalf("query %q should not match", q)
		}
		if res.Confidence != 0 {
			t.Fatalf("query %q: expected confidence 0 got %v", q, res.Confidence)
		}
	}
}

func TestEmptyCatalog(t *testing.T) {
	m := New(Config{}, nil)

	res := m.Match("How do I reset my password?")
	if res.Matched || res.Entry != nil || res.Confidence != 0 {
		t.Fatalf("expected zero result got %+v", res)
	}
}

func TestUnrelatedQueryFallsBelowThreshold(t *testing.T) {
	m := New(Config{}, []QA{
		{Question: "How do I reset my password?", Answer: "Click 'Forgot password' on the login page."},
	})

	res := m.Match("What's the weather today?")
	if res.Matched {
		t.Fatalf("expected no match, confidence %v", res.Confidence)
	}
	if res.Confidence >= DefaultThreshold {
		t.Fatalf("expected confidence below threshold got %v", res.Confidence)
	}
}

func TestTieBreakPrefersEarlierEntry(t *testing.T) {
	m := New(Config{}, []QA{
		{Question: "Do you offer refunds?", Answer: "first"},
		{Question: "Do you offer refunds?", Answer: "second"},
	})

	res := m.Match("Do you offer refunds?")
	if !res.Matched {
		t.Fatalf("expected a match")
	}
	if res.Entry.Answer != "first" {
		t.Fatalf("expected the earlier entry to win the tie got %q", res.Entry.Answer)
	}
}

func TestConfigurableThreshold(t *testing.T) {
	strict := New(Config{Threshold: 0.99}, testCatalog())
	if res := strict.Match("how do i reset my password now"); res.Matched {
		t.Fatalf("strict threshold should reject near matches, confidence %v", res.Confidence)
	}

	lax := New(Config{Threshold: 0.05}, testCatalog())
	if res := lax.Match("reset password"); !res.Matched {
		t.Fatalf("lax threshold should accept partial matches, confidence %v", res.Confidence)
	}
}

func TestCanonicalCollapsesVariants(t *testing.T) {
	m := New(Config{}, testCatalog())
	if m.Canonical("  How do I RESET my password?? ") != m.Canonical("how do reset my password") {
		t.Fatalf("expected canonical forms to agree")
	}
}
