package rules

import (
	"sync"
	"testing"

	"github.com/bigio/spamassassin-tinyurl/internal/domain"
)

func TestHolder_GetSet(t *testing.T) {
	h := NewHolder()

	initial := h.Get()
	if initial == nil {
		t.Fatal("expected non-nil RuleSet from NewHolder")
	}
	if !initial.Empty() {
		t.Fatal("expected initial RuleSet to be empty")
	}

	rs := domain.NewRuleSet([]string{"tinyurl.com"}, nil)
	h.Set(rs)

	got := h.Get()
	if !got.Matches("tinyurl.com") {
		t.Fatalf("expected published rule set to match tinyurl.com")
	}
}

func TestHolder_ConcurrentAccess(t *testing.T) {
	h := NewHolder()
	var wg sync.WaitGroup

	// writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			h.Set(domain.NewRuleSet([]string{"tinyurl.com"}, nil))
		}
	}()

	// readers
	for r := 0; r < 10; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				_ = h.Get().Matches("tinyurl.com")
			}
		}()
	}

	wg.Wait()
}
