package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bigio/spamassassin-tinyurl/internal/domain"
)

var (
	urlRE  = regexp.MustCompile(`https?://[^\s<>"')\]}]+`)
	hostRE = regexp.MustCompile(`(?i)^(?:[a-z0-9-]+\.)+[a-z]{2,}$`)
)

// Candidates extracts candidate URLs from a document body. HTML bodies
// contribute anchor hrefs plus any bare URLs in the rendered text;
// everything else is treated as plain text. URIs keep their first-seen
// order and are deduplicated.
func Candidates(body, contentType string) []domain.Candidate {
	var uris []string
	if strings.Contains(strings.ToLower(contentType), "html") {
		uris = fromHTML(body)
	} else {
		uris = urlRE.FindAllString(body, -1)
	}

	seen := make(map[string]struct{}, len(uris))
	candidates := make([]domain.Candidate, 0, len(uris))
	for _, uri := range uris {
		uri = strings.TrimRight(strings.TrimSpace(uri), ".,;")
		if uri == "" {
			continue
		}
		if _, dup := seen[uri]; dup {
			continue
		}
		seen[uri] = struct{}{}

		domains := AssociatedDomains(uri)
		if len(domains) == 0 {
			continue
		}
		candidates = append(candidates, domain.Candidate{URI: uri, Domains: domains})
	}
	return candidates
}

func fromHTML(body string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return urlRE.FindAllString(body, -1)
	}

	var uris []string
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			uris = append(uris, href)
		}
	})

	// Bare URLs in text nodes count too; spammy messages rarely bother
	// with anchors.
	uris = append(uris, urlRE.FindAllString(doc.Text(), -1)...)
	return uris
}

// AssociatedDomains returns every domain tied to one URI: its own host
// plus any domain carried inside the URI itself, e.g. a target URL in a
// redirect query parameter.
func AssociatedDomains(uri string) []string {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil || u.Hostname() == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(raw string) {
		h, err := domain.NormalizeHost(raw)
		if err != nil {
			return
		}
		if _, dup := seen[h]; dup {
			return
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}

	add(u.Hostname())

	for _, vs := range u.Query() {
		for _, v := range vs {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if inner, err := url.Parse(v); err == nil && inner.Hostname() != "" {
				add(inner.Hostname())
				continue
			}
			if hostRE.MatchString(v) {
				add(v)
			}
		}
	}
	return out
}
