package domain

import (
	"regexp"
	"strings"
)

// RuleSet holds the configured redirector identifiers: an exact-match
// set of lower-cased domains and an ordered list of compiled patterns.
// A RuleSet is immutable once built; reconfiguration replaces the whole
// structure, so a snapshot can be shared across concurrent scans.
type RuleSet struct {
	exact    map[string]struct{}
	patterns []*regexp.Regexp
}

func NewRuleSet(domains []string, patterns []*regexp.Regexp) *RuleSet {
	exact := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		exact[d] = struct{}{}
	}
	return &RuleSet{exact: exact, patterns: patterns}
}

// Matches reports whether domain names a configured redirector: present
// in the exact set (case-insensitive) or matched by any pattern.
// Patterns are tried in configuration order, first match wins.
func (rs *RuleSet) Matches(domain string) bool {
	if rs == nil {
		return false
	}
	d := strings.ToLower(strings.TrimSpace(domain))
	if d == "" {
		return false
	}
	if _, ok := rs.exact[d]; ok {
		return true
	}
	for _, re := range rs.patterns {
		if re.MatchString(d) {
			return true
		}
	}
	return false
}

// Empty reports whether no redirectors are configured at all. An empty
// rule set disables resolution entirely.
func (rs *RuleSet) Empty() bool {
	return rs == nil || (len(rs.exact) == 0 && len(rs.patterns) == 0)
}

// Size returns the number of configured entries, exact domains plus
// patterns.
func (rs *RuleSet) Size() int {
	if rs == nil {
		return 0
	}
	return len(rs.exact) + len(rs.patterns)
}
