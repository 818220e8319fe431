package netcheck

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAvailable_Success(t *testing.T) {
	c := New("example.com")
	c.lookup = func(ctx context.Context, host string) ([]string, error) {
		return []string{"203.0.113.5"}, nil
	}

	if !c.Available(context.Background()) {
		t.Fatal("expected availability when lookup succeeds")
	}
}

func TestAvailable_Failure(t *testing.T) {
	c := New("example.com")
	c.lookup = func(ctx context.Context, host string) ([]string, error) {
		return nil, errors.New("no route")
	}

	if c.Available(context.Background()) {
		t.Fatal("expected unavailability when lookup fails")
	}
}

func TestAvailable_CachesWithinTTL(t *testing.T) {
	var calls int
	c := New("example.com")
	c.lookup = func(ctx context.Context, host string) ([]string, error) {
		calls++
		return []string{"203.0.113.5"}, nil
	}

	ctx := context.Background()
	c.Available(ctx)
	c.Available(ctx)
	c.Available(ctx)

	if calls != 1 {
		t.Fatalf("lookup called %d times, want 1 (cached)", calls)
	}
}

func TestAvailable_RechecksAfterTTL(t *testing.T) {
	var calls int
	c := New("example.com")
	c.ttl = time.Millisecond
	c.lookup = func(ctx context.Context, host string) ([]string, error) {
		calls++
		return nil, errors.New("no route")
	}

	ctx := context.Background()
	c.Available(ctx)
	time.Sleep(5 * time.Millisecond)
	c.Available(ctx)

	if calls != 2 {
		t.Fatalf("lookup called %d times, want 2 (TTL expired)", calls)
	}
}
