package repositories

import (
	"context"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

// TranscriptRepository defines persistence operations for transcripts and analyses
type TranscriptRepository interface {
	// GetByVideoID returns entities.ErrTranscriptNotFound when no row exists
	GetByVideoID(ctx context.Context, videoID string) (*entities.Transcript, error)
	// Save inserts the transcript or replaces the text of an existing row
	Save(ctx context.Context, t *entities.Transcript) error
	SaveAnalysis(ctx context.Context, videoID, summary string, keyPoints []string) error
}

// TranscriptSource is one way of obtaining a transcript
type TranscriptSource interface {
	Name() string
	Fetch(ctx context.Context, videoID string) (entities.TranscriptText, error)
}
