package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

// TranscriptRepository handles transcript data operations
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// GetByVideoID retrieves a transcript by video ID
func (r *TranscriptRepository) GetByVideoID(ctx context.Context, videoID string) (*entities.Transcript, error) {
	var transcript entities.Transcript
	if err := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTranscriptNotFound
		}
		return nil, err
	}
	return &transcript, nil
}

// Save inserts the transcript, or refreshes text, language and source when the
// video already has a row. Stored analyses are left untouched.
func (r *TranscriptRepository) Save(ctx context.Context, transcript *entities.Transcript) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "video_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"text", "language", "source", "updated_at"}),
		}).
		Create(transcript).Error
}

// SaveAnalysis stores the summary and key points of a video
func (r *TranscriptRepository) SaveAnalysis(ctx context.Context, videoID, summary string, keyPoints []string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&entities.Transcript{}).
		Where("video_id = ?", videoID).
		Updates(map[string]interface{}{
			"summary":     summary,
			"key_points":  datatypes.JSONSlice[string](keyPoints),
			"analyzed_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entities.ErrTranscriptNotFound
	}
	return nil
}

// Delete removes the transcript of a video
func (r *TranscriptRepository) Delete(ctx context.Context, videoID string) error {
	return r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&entities.Transcript{}).Error
}
