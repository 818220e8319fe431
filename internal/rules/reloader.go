package rules

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/bigio/spamassassin-tinyurl/internal/metrics"
)

type Config struct {
	Interval       time.Duration // base reload interval, 0 disables periodic reloads
	InitialBackoff time.Duration // initial backoff delay
	MaxBackoff     time.Duration // maximum backoff delay
}

// Start loads the rule set once at startup and then reloads it
// periodically until the context stops. A failed reload keeps the
// previous rule set in place.
func Start(ctx context.Context, cfg Config, src Source, holder *Holder) error {
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 30 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Minute
	}

	if err := loadOnce(ctx, src, holder); err != nil {
		log.Printf("rules: initial load failed: %v", err)
	} else {
		log.Printf("rules: initial load succeeded, %d entries active", holder.Get().Size())
	}

	if cfg.Interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	var consecutiveFailures int

	for {
		select {
		case <-ctx.Done():
			log.Printf("rules: reloader stopped: %v", ctx.Err())
			return ctx.Err()

		case <-ticker.C:
			if err := loadOnce(ctx, src, holder); err != nil {
				consecutiveFailures++
				backoff := calcBackoff(cfg.InitialBackoff, cfg.MaxBackoff, consecutiveFailures)

				log.Printf("rules: reload failed (attempt #%d), backoff=%s: %v",
					consecutiveFailures, backoff, err)

				timer := time.NewTimer(backoff)
				select {
				case <-ctx.Done():
					timer.Stop()
					log.Printf("rules: reloader stopped during backoff: %v", ctx.Err())
					return ctx.Err()
				case <-timer.C:
				}
				continue
			}

			if consecutiveFailures > 0 {
				log.Printf("rules: reload recovered after %d failures", consecutiveFailures)
			}
			consecutiveFailures = 0
		}
	}
}

func calcBackoff(initial, max time.Duration, failures int) time.Duration {
	pow := math.Pow(2, float64(failures-1))
	backoff := time.Duration(float64(initial) * pow)
	if backoff > max {
		backoff = max
	}

	// Add jitter to avoid synchronized retries
	jitterFrac := 0.2
	jitter := time.Duration(rand.Float64()*2*jitterFrac*float64(backoff)) -
		time.Duration(jitterFrac*float64(backoff))

	return backoff + jitter
}

// loadOnce rebuilds the rule set and publishes it to the holder.
func loadOnce(ctx context.Context, src Source, holder *Holder) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rs, err := src.Load(ctx)
	if err != nil {
		metrics.RulesReloads.WithLabelValues("error").Inc()
		return err
	}

	holder.Set(rs)
	metrics.RulesReloads.WithLabelValues("ok").Inc()
	metrics.RulesActive.Set(float64(rs.Size()))
	return nil
}
