package entities

import "time"

// Analysis is the summary view of a video
type Analysis struct {
	VideoID     string    `json:"video_id"`
	Summary     string    `json:"summary"`
	KeyPoints   []string  `json:"key_points"`
	Language    string    `json:"language"`
	Transcript  string    `json:"transcript"`
	Indexed     bool      `json:"indexed"`
	GeneratedAt time.Time `json:"generated_at"`
}

// VideoStatus reports what is already prepared for a video
type VideoStatus struct {
	VideoID          string `json:"video_id"`
	Indexed          bool   `json:"indexed"`
	TranscriptStored bool   `json:"transcript_stored"`
	TranscriptSource string `json:"transcript_source,omitempty"`
	TranscriptLength int    `json:"transcript_length"`
	SummaryCached    bool   `json:"summary_cached"`
}

// Usage is a snapshot of generation usage
type Usage struct {
	TotalCalls        int64      `json:"total_calls"`
	QuotaFailures     int64      `json:"quota_failures"`
	ValidCacheEntries int        `json:"valid_cache_entries"`
	LastCallAt        *time.Time `json:"last_call_at,omitempty"`
	Model             string     `json:"model"`
}

// CachedArtifact is a generated text stored with its expiry
type CachedArtifact struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidAt reports whether the artifact is still usable at now
func (a CachedArtifact) ValidAt(now time.Time) bool {
	return now.Before(a.ExpiresAt)
}
