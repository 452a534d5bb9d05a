package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

// Generator is a text generation backend
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// CacheCounter reports how many cached artifacts are still valid
type CacheCounter interface {
	CountValid(ctx context.Context) (int, error)
}

// GatewayOption configures a Gateway
type GatewayOption func(*Gateway)

// WithClock sets the clock used for spacing and usage timestamps
func WithClock(clk clock.Clock) GatewayOption {
	return func(g *Gateway) { g.clock = clk }
}

// WithRetryTimer sets the timer backoff waits on between attempts
func WithRetryTimer(t backoff.Timer) GatewayOption {
	return func(g *Gateway) { g.timer = t }
}

// WithMinInterval sets the minimum spacing between backend calls
func WithMinInterval(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.minInterval = d }
}

// WithRetry sets the attempt budget and backoff bounds
func WithRetry(maxAttempts int, initial, max time.Duration) GatewayOption {
	return func(g *Gateway) {
		if maxAttempts > 0 {
			g.maxAttempts = maxAttempts
		}
		if initial > 0 {
			g.initialBackoff = initial
		}
		if max > 0 {
			g.maxBackoff = max
		}
	}
}

// WithCacheCounter lets Usage report valid cache entries
func WithCacheCounter(c CacheCounter) GatewayOption {
	return func(g *Gateway) { g.cache = c }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = l }
}

// Gateway is the single path to the generation backend. It spaces calls
// process-wide, retries transient failures with exponential backoff and
// keeps usage counters.
type Gateway struct {
	backend        Generator
	limiter        *rate.Limiter
	clock          clock.Clock
	timer          backoff.Timer
	cache          CacheCounter
	logger         *zap.Logger
	minInterval    time.Duration
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration

	mu            sync.Mutex
	totalCalls    int64
	quotaFailures int64
	lastCall      time.Time
}

// NewGateway wraps backend. Defaults: 2.1s spacing, 3 attempts, 1s..10s backoff.
func NewGateway(backend Generator, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		backend:        backend,
		clock:          clock.New(),
		minInterval:    2100 * time.Millisecond,
		maxAttempts:    3,
		initialBackoff: time.Second,
		maxBackoff:     10 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.limiter = rate.NewLimiter(rate.Every(g.minInterval), 1)
	return g
}

// IsQuotaError reports whether err describes an exhausted backend quota
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, entities.ErrQuotaExceeded) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "quota")
}

// Generate sends prompt to the backend. Quota failures are returned at once
// as entities.ErrQuotaExceeded; other failures are retried and finally
// reported as entities.ErrGeneration.
func (g *Gateway) Generate(ctx context.Context, prompt string) (string, error) {
	var (
		result  string
		attempt int
	)

	op := func() error {
		attempt++
		if err := g.wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		g.recordCall()

		out, err := g.backend.Generate(ctx, prompt)
		if err != nil {
			if IsQuotaError(err) {
				g.recordQuotaFailure()
				if g.logger != nil {
					g.logger.Error("🚫 Generation quota exceeded",
						zap.String("model", g.backend.Model()),
						zap.Int("attempt", attempt),
						zap.Error(err),
					)
				}
				return backoff.Permanent(fmt.Errorf("%w: %v", entities.ErrQuotaExceeded, err))
			}
			return err
		}
		result = out
		return nil
	}

	notify := func(err error, wait time.Duration) {
		if g.logger != nil {
			g.logger.Warn("⏳ Generation failed, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", g.maxAttempts),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}
	}

	if err := backoff.RetryNotifyWithTimer(op, backoff.WithContext(g.newBackOff(), ctx), notify, g.timer); err != nil {
		if errors.Is(err, entities.ErrQuotaExceeded) {
			return "", err
		}
		if g.logger != nil {
			g.logger.Error("❌ Generation failed",
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
		}
		return "", fmt.Errorf("%w: %v", entities.ErrGeneration, err)
	}
	return result, nil
}

func (g *Gateway) newBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.initialBackoff
	bo.Multiplier = 2
	bo.MaxInterval = g.maxBackoff
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()
	return backoff.WithMaxRetries(bo, uint64(g.maxAttempts-1))
}

// wait blocks until the limiter grants the next call slot. The reservation is
// taken under the limiter's own lock, so two callers never get the same slot.
func (g *Gateway) wait(ctx context.Context) error {
	now := g.clock.Now()
	r := g.limiter.ReserveN(now, 1)
	if !r.OK() {
		return fmt.Errorf("rate limiter refused reservation")
	}

	delay := r.DelayFrom(now)
	if delay <= 0 {
		return nil
	}

	t := g.clock.Timer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		r.CancelAt(g.clock.Now())
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (g *Gateway) recordCall() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.totalCalls++
	g.lastCall = g.clock.Now()
}

func (g *Gateway) recordQuotaFailure() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.quotaFailures++
}

// Usage returns a snapshot of the counters
func (g *Gateway) Usage(ctx context.Context) entities.Usage {
	g.mu.Lock()
	u := entities.Usage{
		TotalCalls:    g.totalCalls,
		QuotaFailures: g.quotaFailures,
		Model:         g.backend.Model(),
	}
	if !g.lastCall.IsZero() {
		last := g.lastCall
		u.LastCallAt = &last
	}
	g.mu.Unlock()

	if g.cache != nil {
		n, err := g.cache.CountValid(ctx)
		if err != nil {
			if g.logger != nil {
				g.logger.Warn("⚠️ Failed to count cache entries", zap.Error(err))
			}
		} else {
			u.ValidCacheEntries = n
		}
	}
	return u
}
