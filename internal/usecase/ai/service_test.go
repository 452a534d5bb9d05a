package ai

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

type promptGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (g *promptGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	return g.reply(prompt)
}

func (g *promptGenerator) Model() string { return "test-model" }

func newTestService(t *testing.T, backend Generator) Service {
	t.Helper()
	c, _ := newTestCache(t)
	g := NewGateway(backend, WithMinInterval(time.Nanosecond), WithRetryTimer(&instantTimer{}))
	return NewAIService(g, c, nil)
}

var longTranscript = strings.Repeat("The presenter explains how solar panels convert light. ", 4)

func TestSummarizeShortTranscript(t *testing.T) {
	backend := &promptGenerator{reply: func(string) (string, error) { return "unused", nil }}
	svc := newTestService(t, backend)

	if got := svc.Summarize(context.Background(), "   too short   "); got != summaryUnavailable {
		t.Errorf("Summarize() = %q, want %q", got, summaryUnavailable)
	}
	if got := svc.KeyPoints(context.Background(), "short"); !reflect.DeepEqual(got, []string{keyPointsUnavailable}) {
		t.Errorf("KeyPoints() = %q", got)
	}
	if len(backend.prompts) != 0 {
		t.Errorf("backend called %d times for a short transcript", len(backend.prompts))
	}
}

func TestSummarizeIsCached(t *testing.T) {
	backend := &promptGenerator{reply: func(string) (string, error) { return "  Solar panels turn light into power.  ", nil }}
	svc := newTestService(t, backend)
	ctx := context.Background()

	if svc.SummaryCached(ctx, longTranscript) {
		t.Fatal("nothing should be cached yet")
	}
	for i := 0; i < 2; i++ {
		if got := svc.Summarize(ctx, longTranscript); got != "Solar panels turn light into power." {
			t.Errorf("Summarize() = %q", got)
		}
	}
	if len(backend.prompts) != 1 {
		t.Errorf("backend calls = %d, want 1", len(backend.prompts))
	}
	if !strings.Contains(backend.prompts[0], "Summarize the following YouTube video transcript") {
		t.Errorf("unexpected prompt: %q", backend.prompts[0])
	}
	if !svc.SummaryCached(ctx, longTranscript) {
		t.Error("summary should be cached")
	}
}

func TestKeyPoints(t *testing.T) {
	backend := &promptGenerator{reply: func(string) (string, error) {
		return "• Panels use photovoltaic cells\n• **Efficiency** is about 20%", nil
	}}
	svc := newTestService(t, backend)
	ctx := context.Background()

	want := []string{"Panels use photovoltaic cells", "Efficiency is about 20%"}
	for i := 0; i < 2; i++ {
		if got := svc.KeyPoints(ctx, longTranscript); !reflect.DeepEqual(got, want) {
			t.Errorf("KeyPoints() = %q, want %q", got, want)
		}
	}
	if len(backend.prompts) != 1 {
		t.Errorf("backend calls = %d, want 1", len(backend.prompts))
	}
}

func TestSummaryFailuresUseFixedTexts(t *testing.T) {
	backend := &promptGenerator{reply: func(string) (string, error) { return "", errors.New("quota exceeded") }}
	svc := newTestService(t, backend)
	ctx := context.Background()

	if got := svc.Summarize(ctx, longTranscript); got != summaryFailed {
		t.Errorf("Summarize() = %q, want %q", got, summaryFailed)
	}
	if got := svc.KeyPoints(ctx, longTranscript); !reflect.DeepEqual(got, []string{keyPointsFailed}) {
		t.Errorf("KeyPoints() = %q", got)
	}
	if svc.SummaryCached(ctx, longTranscript) {
		t.Error("failures must not be cached")
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", maxTranscriptRunes+10)
	if got := []rune(truncate(long)); len(got) != maxTranscriptRunes {
		t.Errorf("truncate() kept %d runes, want %d", len(got), maxTranscriptRunes)
	}
	if truncate("short") != "short" {
		t.Error("short input should be unchanged")
	}
}
