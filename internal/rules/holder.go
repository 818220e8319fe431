package rules

import (
	"sync/atomic"

	"github.com/bigio/spamassassin-tinyurl/internal/domain"
)

// Holder publishes the active rule set. Scans read a consistent
// snapshot via Get; reconfiguration swaps the whole set with Set.
type Holder struct {
	value atomic.Pointer[domain.RuleSet]
}

func NewHolder() *Holder {
	h := &Holder{}
	h.value.Store(domain.NewRuleSet(nil, nil))
	return h
}

func (h *Holder) Get() *domain.RuleSet {
	return h.value.Load()
}

func (h *Holder) Set(rs *domain.RuleSet) {
	h.value.Store(rs)
}
