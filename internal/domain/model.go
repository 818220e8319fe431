package domain

// Candidate is one URI extracted from a scanned document, together with
// every domain the extractor associated with it: the URI's own host plus
// any domain seen inside the URI text itself (e.g. in a redirect
// parameter).
type Candidate struct {
	URI     string
	Domains []string
}

// ProbeResult is the observed first hop of a single HEAD probe.
type ProbeResult struct {
	StatusCode int
	Location   string
	IsRedirect bool // 3xx status with a Location header present
}

// Verdict records one confirmed redirector resolution.
// DestinationDomain is always different from OriginDomain: a same-domain
// hop is a site-relative redirect, not a shortener resolution, and is
// never emitted.
type Verdict struct {
	OriginURL         string
	DestinationURL    string
	DestinationDomain string
	OriginDomain      string
}
