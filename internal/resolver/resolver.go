package resolver

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bigio/spamassassin-tinyurl/internal/domain"
	"github.com/bigio/spamassassin-tinyurl/internal/metrics"
)

const (
	// DefaultProbeCap bounds per-document latency: each probe may block
	// for its full timeout, so qualifying URIs beyond the cap are
	// silently skipped.
	DefaultProbeCap = 6

	DefaultConcurrency = 3
)

// Prober observes the first hop of a candidate URL.
type Prober interface {
	Probe(ctx context.Context, rawURL string) (domain.ProbeResult, error)
}

// Config bounds a single document scan.
type Config struct {
	ProbeCap    int // max probes issued per scan
	Concurrency int // max in-flight probes
}

// Resolver resolves short URLs produced by redirector services to their
// destination domain. It holds no per-scan state; one Resolver is
// safely shared across concurrent scans.
type Resolver struct {
	prober Prober
	cfg    Config
}

func New(prober Prober, cfg Config) *Resolver {
	if cfg.ProbeCap <= 0 {
		cfg.ProbeCap = DefaultProbeCap
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Resolver{prober: prober, cfg: cfg}
}

// Result is the outcome of one document scan.
type Result struct {
	Verdicts []domain.Verdict

	// Discovered holds the destination URLs of emitted verdicts,
	// surfaced so the caller can scan them like any other URI in the
	// document. They are never re-probed within this scan.
	Discovered []string
}

// Resolve selects the candidate URIs whose associated domains match the
// rule set, probes each once (up to the probe cap) and classifies the
// responses into verdicts.
//
// Resolution is best-effort enrichment: a missing precondition (no DNS,
// no rules) or a failed probe yields no verdict, never an error.
func (r *Resolver) Resolve(ctx context.Context, candidates []domain.Candidate, rules *domain.RuleSet, dnsAvailable bool) Result {
	if !dnsAvailable || rules.Empty() {
		return Result{}
	}

	selected := selectCandidates(candidates, rules, r.cfg.ProbeCap)
	if len(selected) == 0 {
		return Result{}
	}

	// One slot per selected URI keeps verdict order deterministic
	// (candidate order) no matter which probe finishes first.
	verdicts := make([]*domain.Verdict, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for i, uri := range selected {
		i, uri := i, uri
		g.Go(func() error {
			start := time.Now()
			res, err := r.prober.Probe(gctx, uri)
			metrics.ProbeDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				// A failed probe discards one candidate, never the scan.
				metrics.ProbesTotal.WithLabelValues("error").Inc()
				log.Printf("resolver: probe %s: %v", uri, err)
				return nil
			}
			if !res.IsRedirect {
				metrics.ProbesTotal.WithLabelValues("no_redirect").Inc()
				return nil
			}
			metrics.ProbesTotal.WithLabelValues("redirect").Inc()
			verdicts[i] = classify(uri, res, rules)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	var out Result
	for _, v := range verdicts {
		if v == nil {
			continue
		}
		metrics.VerdictsTotal.Inc()
		out.Verdicts = append(out.Verdicts, *v)
		out.Discovered = append(out.Discovered, v.DestinationURL)
	}
	return out
}

// selectCandidates picks, in candidate order, the distinct URIs with at
// least one associated domain matching the rule set. A URI is selected
// once even when several of its domains match; selection stops at cap.
func selectCandidates(candidates []domain.Candidate, rules *domain.RuleSet, limit int) []string {
	seen := make(map[string]struct{}, len(candidates))
	var selected []string

	for _, c := range candidates {
		if len(selected) == limit {
			break
		}
		uri := strings.TrimSpace(c.URI)
		if uri == "" {
			continue
		}
		if _, dup := seen[uri]; dup {
			continue
		}
		matched := false
		for _, d := range c.Domains {
			if rules.Matches(d) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		seen[uri] = struct{}{}
		selected = append(selected, uri)
	}
	return selected
}

// classify turns one redirect response into a verdict, or nil when the
// hop must be discarded. Any 3xx counts as a redirect signal; same-domain
// hops are site-relative redirects and are dropped, and the origin is
// re-validated against the full rule set before reporting.
func classify(originURL string, res domain.ProbeResult, rules *domain.RuleSet) *domain.Verdict {
	origin, err := url.Parse(originURL)
	if err != nil || origin.Hostname() == "" {
		return nil
	}

	loc, err := url.Parse(strings.TrimSpace(res.Location))
	if err != nil {
		return nil
	}
	// Relative Location values resolve against the origin; they then
	// land on the origin's own domain and fall to the same-domain rule.
	dest := origin.ResolveReference(loc)
	if dest.Hostname() == "" {
		return nil
	}

	destDomain, err := domain.RegistrableDomain(dest.Hostname())
	if err != nil || destDomain == "" {
		return nil
	}
	originDomain, err := domain.RegistrableDomain(origin.Hostname())
	if err != nil || originDomain == "" {
		return nil
	}

	if destDomain == originDomain {
		return nil
	}
	if !rules.Matches(originDomain) {
		return nil
	}

	return &domain.Verdict{
		OriginURL:         originURL,
		DestinationURL:    dest.String(),
		DestinationDomain: destDomain,
		OriginDomain:      originDomain,
	}
}
