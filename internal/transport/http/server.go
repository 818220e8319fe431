package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigio/spamassassin-tinyurl/internal/domain"
	"github.com/bigio/spamassassin-tinyurl/internal/extract"
	"github.com/bigio/spamassassin-tinyurl/internal/metrics"
	"github.com/bigio/spamassassin-tinyurl/internal/netcheck"
	"github.com/bigio/spamassassin-tinyurl/internal/report"
	"github.com/bigio/spamassassin-tinyurl/internal/resolver"
	"github.com/bigio/spamassassin-tinyurl/internal/rules"
)

const (
	maxURLLen  = 2048
	maxBodyLen = 1 << 20
)

type Server struct {
	holder   *rules.Holder
	resolver *resolver.Resolver
	dns      *netcheck.Checker
}

func NewServer(holder *rules.Holder, res *resolver.Resolver, dns *netcheck.Checker) *Server {
	return &Server{holder: holder, resolver: res, dns: dns}
}

type candidateRecord struct {
	Domains []string `json:"domains"`
}

type resolveRequest struct {
	URLs map[string]candidateRecord `json:"urls"`

	// DNSAvailable lets a host that already checked name resolution
	// override the service's own cached check.
	DNSAvailable *bool `json:"dns_available,omitempty"`
}

type scanRequest struct {
	Body        string `json:"body"`
	ContentType string `json:"content_type"`
}

type verdictJSON struct {
	OriginURL         string `json:"origin_url"`
	DestinationURL    string `json:"destination_url"`
	DestinationDomain string `json:"destination_domain"`
	OriginDomain      string `json:"origin_domain"`
}

type candidateJSON struct {
	URI     string   `json:"uri"`
	Domains []string `json:"domains"`
}

type resolveResponse struct {
	Verdicts   []verdictJSON `json:"verdicts"`
	Hits       []report.Hit  `json:"hits"`
	Discovered []string      `json:"discovered"`

	// Candidates is populated by /scan only: the URIs the extractor
	// found, whether or not they were probed.
	Candidates []candidateJSON `json:"candidates,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Ready once a non-empty rule set is active; without rules every
	// scan short-circuits to an empty result.
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if s.holder.Get().Empty() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("no rules loaded"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Post("/scan", s.handleScan)
	})

	return r
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyLen)
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "invalid json body")
		return
	}
	if len(req.URLs) == 0 {
		badRequest(w, r, "urls is required")
		return
	}

	candidates, err := candidatesFromRequest(req.URLs)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	s.respond(w, r, candidates, req.DNSAvailable, nil)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyLen)
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		badRequest(w, r, "body is required")
		return
	}

	candidates := extract.Candidates(req.Body, req.ContentType)

	extracted := make([]candidateJSON, 0, len(candidates))
	for _, c := range candidates {
		extracted = append(extracted, candidateJSON{URI: c.URI, Domains: c.Domains})
	}

	s.respond(w, r, candidates, nil, extracted)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, candidates []domain.Candidate, dnsOverride *bool, extracted []candidateJSON) {
	metrics.ScansTotal.Inc()

	dnsAvailable := s.dns.Available(r.Context())
	if dnsOverride != nil {
		dnsAvailable = *dnsOverride
	}

	result := s.resolver.Resolve(r.Context(), candidates, s.holder.Get(), dnsAvailable)
	report.Log(result.Verdicts)

	resp := resolveResponse{
		Verdicts:   make([]verdictJSON, 0, len(result.Verdicts)),
		Hits:       report.FromVerdicts(result.Verdicts),
		Discovered: append([]string{}, result.Discovered...),
		Candidates: extracted,
	}
	for _, v := range result.Verdicts {
		resp.Verdicts = append(resp.Verdicts, verdictJSON{
			OriginURL:         v.OriginURL,
			DestinationURL:    v.DestinationURL,
			DestinationDomain: v.DestinationDomain,
			OriginDomain:      v.OriginDomain,
		})
	}

	render.JSON(w, r, resp)
}

// candidatesFromRequest flattens the request map into candidate order.
// JSON objects carry no order, so URIs are sorted to keep resolution
// deterministic per request.
func candidatesFromRequest(urls map[string]candidateRecord) ([]domain.Candidate, error) {
	candidates := make([]domain.Candidate, 0, len(urls))
	for uri, rec := range urls {
		uri = strings.TrimSpace(uri)
		if uri == "" {
			return nil, errors.New("empty url key")
		}
		if len(uri) > maxURLLen {
			return nil, errors.New("url is too long")
		}
		candidates = append(candidates, domain.Candidate{
			URI:     uri,
			Domains: rec.Domains,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].URI < candidates[j].URI
	})
	return candidates, nil
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorResponse{Error: msg})
}

// Run starts the API server on the given address and shuts it down
// gracefully when the context is canceled.
func Run(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: NewRouter(s),
		// A scan may spend up to ceil(cap/concurrency) probe timeouts
		// before responding, so the write timeout is generous.
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("http: graceful shutdown error: %v", err)
		}
	}()

	log.Printf("http: API server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
