package ai

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

// scriptedGenerator returns errs in order, then reply
type scriptedGenerator struct {
	mu    sync.Mutex
	calls int
	errs  []error
	reply string
	model string
}

func (g *scriptedGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if len(g.errs) > 0 {
		err := g.errs[0]
		g.errs = g.errs[1:]
		return "", err
	}
	return g.reply, nil
}

func (g *scriptedGenerator) Model() string {
	if g.model == "" {
		return "test-model"
	}
	return g.model
}

func (g *scriptedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// instantTimer fires immediately and records the requested waits
type instantTimer struct {
	mu    sync.Mutex
	waits []time.Duration
	ch    chan time.Time
}

func (t *instantTimer) Start(d time.Duration) {
	t.mu.Lock()
	t.waits = append(t.waits, d)
	t.mu.Unlock()
	t.ch = make(chan time.Time, 1)
	t.ch <- time.Now()
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.ch }

type fixedCounter int

func (c fixedCounter) CountValid(context.Context) (int, error) { return int(c), nil }

func TestGatewayRetriesWithExponentialBackoff(t *testing.T) {
	backend := &scriptedGenerator{
		errs:  []error{errors.New("503 unavailable"), errors.New("503 unavailable")},
		reply: "ok",
	}
	timer := &instantTimer{}
	g := NewGateway(backend, WithMinInterval(time.Nanosecond), WithRetryTimer(timer))

	out, err := g.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "ok" {
		t.Errorf("Generate() = %q, want %q", out, "ok")
	}
	if backend.Calls() != 3 {
		t.Errorf("backend calls = %d, want 3", backend.Calls())
	}

	want := []time.Duration{time.Second, 2 * time.Second}
	if len(timer.waits) != len(want) {
		t.Fatalf("waits = %v, want %v", timer.waits, want)
	}
	for i := range want {
		if timer.waits[i] != want[i] {
			t.Errorf("wait[%d] = %v, want %v", i, timer.waits[i], want[i])
		}
	}
}

func TestGatewayExhaustedRetries(t *testing.T) {
	boom := errors.New("connection reset")
	backend := &scriptedGenerator{errs: []error{boom, boom, boom, boom}}
	timer := &instantTimer{}
	g := NewGateway(backend, WithMinInterval(time.Nanosecond), WithRetryTimer(timer))

	_, err := g.Generate(context.Background(), "hello")
	if !errors.Is(err, entities.ErrGeneration) {
		t.Fatalf("Generate() error = %v, want ErrGeneration", err)
	}
	if backend.Calls() != 3 {
		t.Errorf("backend calls = %d, want 3", backend.Calls())
	}
	if len(timer.waits) != 2 {
		t.Errorf("waits = %v, want 2 waits", timer.waits)
	}
	if got := g.Usage(context.Background()).TotalCalls; got != 3 {
		t.Errorf("TotalCalls = %d, want 3", got)
	}
}

func TestGatewayQuotaIsNotRetried(t *testing.T) {
	backend := &scriptedGenerator{errs: []error{errors.New("429: You exceeded your current Quota")}}
	timer := &instantTimer{}
	g := NewGateway(backend, WithMinInterval(time.Nanosecond), WithRetryTimer(timer))

	_, err := g.Generate(context.Background(), "hello")
	if !errors.Is(err, entities.ErrQuotaExceeded) {
		t.Fatalf("Generate() error = %v, want ErrQuotaExceeded", err)
	}
	if errors.Is(err, entities.ErrGeneration) {
		t.Errorf("quota error should not be reported as ErrGeneration")
	}
	if backend.Calls() != 1 {
		t.Errorf("backend calls = %d, want 1", backend.Calls())
	}
	if len(timer.waits) != 0 {
		t.Errorf("waits = %v, want none", timer.waits)
	}

	u := g.Usage(context.Background())
	if u.TotalCalls != 1 || u.QuotaFailures != 1 {
		t.Errorf("Usage() = %+v, want 1 call and 1 quota failure", u)
	}
}

func TestGatewaySpacesCalls(t *testing.T) {
	const interval = 30 * time.Millisecond
	backend := &scriptedGenerator{reply: "ok"}
	g := NewGateway(backend, WithMinInterval(interval))

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Generate(context.Background(), "hi"); err != nil {
				t.Errorf("Generate() error = %v", err)
			}
		}()
	}
	wg.Wait()

	// first call is immediate, the other three wait one interval each
	if elapsed := time.Since(start); elapsed < 3*interval-5*time.Millisecond {
		t.Errorf("4 calls took %v, want at least %v", elapsed, 3*interval)
	}
	if backend.Calls() != 4 {
		t.Errorf("backend calls = %d, want 4", backend.Calls())
	}
}

func TestGatewaySpacingHonoursContext(t *testing.T) {
	backend := &scriptedGenerator{reply: "ok"}
	g := NewGateway(backend, WithMinInterval(time.Hour))

	if _, err := g.Generate(context.Background(), "first"); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := g.Generate(ctx, "second"); err == nil {
		t.Fatal("second Generate() should fail when the context ends first")
	}
	if backend.Calls() != 1 {
		t.Errorf("backend calls = %d, want 1", backend.Calls())
	}
}

func TestGatewayUsage(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	backend := &scriptedGenerator{reply: "ok", model: "gemini-2.0-flash-lite"}
	g := NewGateway(backend, WithClock(clk), WithCacheCounter(fixedCounter(3)))

	before := g.Usage(context.Background())
	if before.LastCallAt != nil || before.TotalCalls != 0 {
		t.Errorf("fresh Usage() = %+v, want zero counters", before)
	}

	if _, err := g.Generate(context.Background(), "hi"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	u := g.Usage(context.Background())
	if u.TotalCalls != 1 {
		t.Errorf("TotalCalls = %d, want 1", u.TotalCalls)
	}
	if u.ValidCacheEntries != 3 {
		t.Errorf("ValidCacheEntries = %d, want 3", u.ValidCacheEntries)
	}
	if u.Model != "gemini-2.0-flash-lite" {
		t.Errorf("Model = %q", u.Model)
	}
	if u.LastCallAt == nil || !u.LastCallAt.Equal(clk.Now()) {
		t.Errorf("LastCallAt = %v, want %v", u.LastCallAt, clk.Now())
	}
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("timeout"), false},
		{"lowercase", errors.New("quota exhausted"), true},
		{"mixed case", errors.New("RESOURCE_EXHAUSTED: Quota exceeded"), true},
		{"sentinel", entities.ErrQuotaExceeded, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Errorf("IsQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
