package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/bigio/spamassassin-tinyurl/internal/domain"
)

type fakeSource struct {
	rs  *domain.RuleSet
	err error
}

func (f *fakeSource) Load(ctx context.Context) (*domain.RuleSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rs, nil
}

func TestLoadOnce_Success(t *testing.T) {
	holder := NewHolder()
	src := &fakeSource{rs: domain.NewRuleSet([]string{"tinyurl.com"}, nil)}

	if err := loadOnce(context.Background(), src, holder); err != nil {
		t.Fatalf("loadOnce error: %v", err)
	}

	if !holder.Get().Matches("tinyurl.com") {
		t.Fatal("expected holder to publish the loaded rule set")
	}
}

func TestLoadOnce_ErrorKeepsPrevious(t *testing.T) {
	holder := NewHolder()
	holder.Set(domain.NewRuleSet([]string{"tinyurl.com"}, nil))

	src := &fakeSource{err: errors.New("boom")}

	if err := loadOnce(context.Background(), src, holder); err == nil {
		t.Fatal("expected loadOnce to surface the source error")
	}

	if !holder.Get().Matches("tinyurl.com") {
		t.Fatal("expected previous rule set to stay active after a failed load")
	}
}

func TestStart_NoInterval(t *testing.T) {
	holder := NewHolder()
	src := &fakeSource{rs: domain.NewRuleSet([]string{"tinyurl.com"}, nil)}

	// Interval 0: one initial load, then return without ticking.
	if err := Start(context.Background(), Config{}, src, holder); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	if !holder.Get().Matches("tinyurl.com") {
		t.Fatal("expected initial load to run")
	}
}
