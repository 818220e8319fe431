package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultUserAgent = "Mozilla/5.0 (compatible; tinyurl-service/1.0)"

type Config struct {
	HTTPAddr string

	RedirectorDomains   []string // exact-match redirector domains
	RedirectorPatterns  []string // redirector-matching regex tokens
	RulesFile           string
	RulesReloadInterval time.Duration

	ProbeTimeout     time.Duration
	ProbeCap         int
	ProbeConcurrency int
	UserAgent        string

	DNSCheckHost string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// tokens splits a space-separated setting. A variable that is set but
// blank is a configuration error: the operator asked for rules and
// provided none.
func tokens(key string) ([]string, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%s is set but empty", key)
	}
	return fields, nil
}

func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		RulesFile:    getenv("RULES_FILE", ""),
		UserAgent:    getenv("USER_AGENT", DefaultUserAgent),
		DNSCheckHost: getenv("DNS_CHECK_HOST", "example.com"),
	}

	var err error
	if cfg.RedirectorDomains, err = tokens("REDIRECTOR_DOMAINS"); err != nil {
		return Config{}, err
	}
	if cfg.RedirectorPatterns, err = tokens("REDIRECTOR_PATTERNS"); err != nil {
		return Config{}, err
	}

	timeoutStr := getenv("PROBE_TIMEOUT", "5s")
	d, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid PROBE_TIMEOUT=%q: %w", timeoutStr, err)
	}
	if d < 100*time.Millisecond || d > time.Minute {
		return Config{}, fmt.Errorf("PROBE_TIMEOUT out of range (%s), must be 100ms..1m", d)
	}
	cfg.ProbeTimeout = d

	capStr := getenv("PROBE_CAP", "6")
	n, err := strconv.Atoi(capStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid PROBE_CAP=%q: %w", capStr, err)
	}
	if n < 1 || n > 100 {
		return Config{}, fmt.Errorf("PROBE_CAP out of range (%d), must be 1..100", n)
	}
	cfg.ProbeCap = n

	concStr := getenv("PROBE_CONCURRENCY", "3")
	n, err = strconv.Atoi(concStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid PROBE_CONCURRENCY=%q: %w", concStr, err)
	}
	if n < 1 || n > cfg.ProbeCap {
		return Config{}, fmt.Errorf("PROBE_CONCURRENCY out of range (%d), must be 1..PROBE_CAP", n)
	}
	cfg.ProbeConcurrency = n

	reloadStr := getenv("RULES_RELOAD_INTERVAL", "5m")
	d, err = time.ParseDuration(reloadStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid RULES_RELOAD_INTERVAL=%q: %w", reloadStr, err)
	}
	if d != 0 && (d < 10*time.Second || d > 24*time.Hour) {
		return Config{}, fmt.Errorf("RULES_RELOAD_INTERVAL out of range (%s), must be 0 or 10s..24h", d)
	}
	cfg.RulesReloadInterval = d

	return cfg, nil
}
