package netcheck

import (
	"context"
	"log"
	"net"
	"sync"
	"time"
)

const (
	defaultTimeout = 3 * time.Second
	defaultTTL     = 5 * time.Minute
)

// Checker answers whether name resolution currently works. Resolution is
// a precondition for redirect probing: without working DNS every probe
// would burn its full timeout for nothing. The answer is cached for a
// TTL so concurrent scans don't hammer the resolver.
type Checker struct {
	host    string
	timeout time.Duration
	ttl     time.Duration
	lookup  func(ctx context.Context, host string) ([]string, error)

	mu        sync.Mutex
	checkedAt time.Time
	available bool
}

func New(host string) *Checker {
	return &Checker{
		host:    host,
		timeout: defaultTimeout,
		ttl:     defaultTTL,
		lookup:  net.DefaultResolver.LookupHost,
	}
}

// NewStatic returns a checker pinned to a fixed answer, for hosts that
// perform their own availability checking.
func NewStatic(available bool) *Checker {
	return &Checker{
		ttl:       time.Duration(1<<62 - 1),
		checkedAt: time.Now(),
		available: available,
	}
}

// Available reports whether name resolution works, re-checking at most
// once per TTL.
func (c *Checker) Available(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.checkedAt.IsZero() && time.Since(c.checkedAt) < c.ttl {
		return c.available
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.lookup(ctx, c.host)
	c.available = err == nil
	c.checkedAt = time.Now()

	if !c.available {
		log.Printf("netcheck: name resolution unavailable: %v", err)
	}
	return c.available
}
