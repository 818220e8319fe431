package report

import (
	"fmt"
	"log"

	"github.com/bigio/spamassassin-tinyurl/internal/domain"
)

// RuleName is the single scoring rule registered for every verdict;
// scoring does not differentiate between verdicts.
const RuleName = "URL_REDIRECTOR"

// Hit is one scored rule match derived from a verdict.
type Hit struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// FromVerdicts maps verdicts to scored hits.
func FromVerdicts(verdicts []domain.Verdict) []Hit {
	hits := make([]Hit, 0, len(verdicts))
	for _, v := range verdicts {
		hits = append(hits, Hit{Rule: RuleName, Message: Line(v)})
	}
	return hits
}

// Line formats the operator-visible line for one verdict.
func Line(v domain.Verdict) string {
	return fmt.Sprintf("%s (%s)", v.OriginURL, v.DestinationDomain)
}

// Log writes one line per verdict for operator visibility.
func Log(verdicts []domain.Verdict) {
	for _, v := range verdicts {
		log.Printf("report: %s hit: %s", RuleName, Line(v))
	}
}
