package report

import (
	"testing"

	"github.com/bigio/spamassassin-tinyurl/internal/domain"
)

func TestLine(t *testing.T) {
	v := domain.Verdict{
		OriginURL:         "http://tiny.example/abc",
		DestinationURL:    "http://real.example/page",
		DestinationDomain: "real.example",
		OriginDomain:      "tiny.example",
	}

	want := "http://tiny.example/abc (real.example)"
	if got := Line(v); got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestFromVerdicts(t *testing.T) {
	verdicts := []domain.Verdict{
		{OriginURL: "http://tiny.example/a", DestinationDomain: "one.example"},
		{OriginURL: "http://tiny.example/b", DestinationDomain: "two.example"},
	}

	hits := FromVerdicts(verdicts)

	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	for i, h := range hits {
		if h.Rule != RuleName {
			t.Errorf("hit[%d].Rule = %q, want %q (no per-verdict differentiation)", i, h.Rule, RuleName)
		}
	}
	if hits[0].Message != "http://tiny.example/a (one.example)" {
		t.Errorf("hit[0].Message = %q", hits[0].Message)
	}
}

func TestFromVerdicts_Empty(t *testing.T) {
	if hits := FromVerdicts(nil); len(hits) != 0 {
		t.Fatalf("got %d hits, want 0", len(hits))
	}
}
