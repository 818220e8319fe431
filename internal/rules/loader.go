package rules

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bigio/spamassassin-tinyurl/internal/domain"
)

// rulesFile is the on-disk YAML rules document:
//
//	redirectors:
//	  domains: [tinyurl.com, bit.ly]
//	  patterns: ['^t\.co$']
type rulesFile struct {
	Redirectors struct {
		Domains  []string `yaml:"domains"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"redirectors"`
}

// Build compiles a rule set from exact-domain tokens and pattern tokens.
// Each pattern compiles independently: an invalid pattern is logged and
// skipped, the remaining patterns still load.
func Build(domains, patterns []string) *domain.RuleSet {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	var skipped int

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			skipped++
			log.Printf("rules: skipping invalid pattern %q: %v", p, err)
			continue
		}
		compiled = append(compiled, re)
	}
	if skipped > 0 {
		log.Printf("rules: %d invalid pattern(s) skipped", skipped)
	}

	return domain.NewRuleSet(domains, compiled)
}

// Source produces a complete rule set; reconfiguration always rebuilds
// from scratch, nothing is merged into a live set.
type Source interface {
	Load(ctx context.Context) (*domain.RuleSet, error)
}

// FileSource builds the rule set from environment-supplied tokens plus
// an optional YAML rules file. With no file configured it is a pure
// env-token source that never fails.
type FileSource struct {
	path     string
	domains  []string
	patterns []string
}

func NewFileSource(path string, domains, patterns []string) *FileSource {
	return &FileSource{path: path, domains: domains, patterns: patterns}
}

func (s *FileSource) Load(ctx context.Context) (*domain.RuleSet, error) {
	domains := append([]string(nil), s.domains...)
	patterns := append([]string(nil), s.patterns...)

	if s.path != "" {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read rules file: %w", err)
		}
		var f rulesFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse rules file %s: %w", s.path, err)
		}
		domains = append(domains, f.Redirectors.Domains...)
		patterns = append(patterns, f.Redirectors.Patterns...)
	}

	return Build(domains, patterns), nil
}
