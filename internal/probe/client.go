package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bigio/spamassassin-tinyurl/internal/domain"
)

const DefaultTimeout = 5 * time.Second

// Client issues single, bounded, non-following HEAD probes against
// candidate URLs.
type Client struct {
	http      *http.Client
	userAgent string
}

func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
			// The resolver needs the first hop's Location header,
			// not the chased destination.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: userAgent,
	}
}

// Probe issues one HEAD request and reports the observed status code and
// Location header. HEAD keeps response bodies off the wire; the result
// counts as a redirect only for a 3xx status carrying a Location.
func (c *Client) Probe(ctx context.Context, rawURL string) (domain.ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return domain.ProbeResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ProbeResult{}, fmt.Errorf("head %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	loc := resp.Header.Get("Location")

	return domain.ProbeResult{
		StatusCode: resp.StatusCode,
		Location:   loc,
		IsRedirect: resp.StatusCode >= 300 && resp.StatusCode < 400 && loc != "",
	}, nil
}
