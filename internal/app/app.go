package app

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/bigio/spamassassin-tinyurl/internal/config"
	"github.com/bigio/spamassassin-tinyurl/internal/netcheck"
	"github.com/bigio/spamassassin-tinyurl/internal/probe"
	"github.com/bigio/spamassassin-tinyurl/internal/resolver"
	"github.com/bigio/spamassassin-tinyurl/internal/rules"
	httpapi "github.com/bigio/spamassassin-tinyurl/internal/transport/http"
)

func Run(ctx context.Context, cfg config.Config) error {
	holder := rules.NewHolder()
	src := rules.NewFileSource(cfg.RulesFile, cfg.RedirectorDomains, cfg.RedirectorPatterns)

	if len(cfg.RedirectorDomains) == 0 && len(cfg.RedirectorPatterns) == 0 && cfg.RulesFile == "" {
		log.Printf("app: no redirector rules configured, resolution is disabled until rules are provided")
	}

	prober := probe.NewClient(cfg.ProbeTimeout, cfg.UserAgent)
	res := resolver.New(prober, resolver.Config{
		ProbeCap:    cfg.ProbeCap,
		Concurrency: cfg.ProbeConcurrency,
	})
	dns := netcheck.New(cfg.DNSCheckHost)

	srv := httpapi.NewServer(holder, res, dns)

	reloadCfg := rules.Config{Interval: cfg.RulesReloadInterval}
	// A rules file can change on disk; env tokens can't. Reloading
	// without a file would only burn cycles.
	if cfg.RulesFile == "" {
		reloadCfg.Interval = 0
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return rules.Start(ctx, reloadCfg, src, holder)
	})

	g.Go(func() error {
		return httpapi.Run(ctx, cfg.HTTPAddr, srv)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Printf("app: servers stopped with error: %v", err)
		return err
	}

	log.Printf("app: servers stopped gracefully")
	return nil
}
