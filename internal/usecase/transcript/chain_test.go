package transcript

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

type stubSource struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, videoID string) (entities.TranscriptText, error) {
	s.calls++
	if s.err != nil {
		return entities.TranscriptText{}, s.err
	}
	return entities.TranscriptText{VideoID: videoID, Text: s.text, Language: "en", Source: s.name}, nil
}

type memoryRepo struct {
	mu   sync.Mutex
	rows map[string]*entities.Transcript
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[string]*entities.Transcript{}}
}

func (r *memoryRepo) GetByVideoID(_ context.Context, videoID string) (*entities.Transcript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[videoID]
	if !ok {
		return nil, entities.ErrTranscriptNotFound
	}
	return row, nil
}

func (r *memoryRepo) Save(_ context.Context, t *entities.Transcript) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[t.VideoID] = t
	return nil
}

func (r *memoryRepo) SaveAnalysis(context.Context, string, string, []string) error { return nil }

const videoID = "abc12345678"

func TestChainFirstSuccessWins(t *testing.T) {
	first := &stubSource{name: "youtube", text: "The sky is blue."}
	second := &stubSource{name: "assemblyai", text: "unused"}
	c := NewChain(nil, nil, first, second)

	got, err := c.Fetch(context.Background(), videoID)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Text != "The sky is blue." || got.Source != "youtube" {
		t.Errorf("Fetch() = %+v", got)
	}
	if second.calls != 0 {
		t.Errorf("second source called %d times, want 0", second.calls)
	}
}

func TestChainSkipsEmptyAndFailed(t *testing.T) {
	empty := &stubSource{name: "youtube", text: "   "}
	failing := &stubSource{name: "other", err: errors.New("boom")}
	good := &stubSource{name: "assemblyai", text: "spoken words"}
	c := NewChain(nil, nil, empty, failing, good)

	got, err := c.Fetch(context.Background(), videoID)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Source != "assemblyai" {
		t.Errorf("Source = %q, want assemblyai", got.Source)
	}
}

func TestChainAllFail(t *testing.T) {
	c := NewChain(nil, nil,
		&stubSource{name: "youtube", err: errors.New("captions disabled")},
		&stubSource{name: "assemblyai", text: ""},
	)

	_, err := c.Fetch(context.Background(), videoID)
	if !errors.Is(err, entities.ErrNoTranscriptAvailable) {
		t.Errorf("Fetch() error = %v, want ErrNoTranscriptAvailable", err)
	}

	if _, err := NewChain(nil, nil).Fetch(context.Background(), videoID); !errors.Is(err, entities.ErrNoTranscriptAvailable) {
		t.Errorf("empty chain error = %v, want ErrNoTranscriptAvailable", err)
	}
}

func TestChainStoresRemoteTranscripts(t *testing.T) {
	repo := newMemoryRepo()
	remote := &stubSource{name: "youtube", text: "The sky is blue and grass is green."}
	c := NewChain(repo, nil, NewRepositorySource(repo), remote)

	first, err := c.Fetch(context.Background(), videoID)
	if err != nil {
		t.Fatalf("first Fetch() error = %v", err)
	}
	if first.Source != "youtube" {
		t.Errorf("first Source = %q, want youtube", first.Source)
	}

	second, err := c.Fetch(context.Background(), videoID)
	if err != nil {
		t.Fatalf("second Fetch() error = %v", err)
	}
	if second.Source != entities.SourceRepository {
		t.Errorf("second Source = %q, want repository", second.Source)
	}
	if second.Text != first.Text {
		t.Errorf("stored text = %q, want %q", second.Text, first.Text)
	}
	if remote.calls != 1 {
		t.Errorf("remote calls = %d, want 1", remote.calls)
	}
}
