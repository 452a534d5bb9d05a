package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Transcript sources
const (
	SourceRepository = "repository"
	SourceYouTube    = "youtube"
	SourceAssemblyAI = "assemblyai"
)

// TranscriptText is plain transcript text as fetched from a source
type TranscriptText struct {
	VideoID  string `json:"video_id"`
	Text     string `json:"text"`
	Language string `json:"language"`
	Source   string `json:"source"`
}

// Transcript is the stored transcript model
type Transcript struct {
	ID         uuid.UUID                   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VideoID    string                      `json:"video_id" gorm:"type:varchar(16);not null;uniqueIndex"`
	Text       string                      `json:"text" gorm:"type:text"`
	Language   string                      `json:"language,omitempty" gorm:"type:varchar(20)"`
	Source     string                      `json:"source,omitempty" gorm:"type:varchar(32)"`
	Summary    string                      `json:"summary,omitempty" gorm:"type:text"`
	KeyPoints  datatypes.JSONSlice[string] `json:"key_points,omitempty" gorm:"type:jsonb"`
	AnalyzedAt *time.Time                  `json:"analyzed_at,omitempty"`
	CreatedAt  time.Time                   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time                   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a new transcript row from fetched text
func NewTranscript(t TranscriptText) *Transcript {
	return &Transcript{
		ID:        uuid.New(),
		VideoID:   t.VideoID,
		Text:      t.Text,
		Language:  t.Language,
		Source:    t.Source,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// AsText converts the stored row back to fetched text
func (t *Transcript) AsText() TranscriptText {
	return TranscriptText{
		VideoID:  t.VideoID,
		Text:     t.Text,
		Language: t.Language,
		Source:   SourceRepository,
	}
}
