package video

import "time"

// Ask response types
const (
	AnswerTypeBuddy   = "buddy"
	AnswerTypeDefault = "default"
	AnswerTypeBeyond  = "beyond"
)

// AskResponse is returned by POST /api/ask
type AskResponse struct {
	Status      string    `json:"status"`
	Data        AskData   `json:"data"`
	VideoID     string    `json:"video_id"`
	Mode        string    `json:"mode"`
	Outcome     string    `json:"outcome"`
	GeneratedAt time.Time `json:"generated_at"`
}

// AskData carries the answer split into its sections.
// Beyond answers fill TranscriptAnswer and GeneralAnswer, the others fill Answer.
type AskData struct {
	Type             string `json:"type"`
	Answer           string `json:"answer,omitempty"`
	TranscriptAnswer string `json:"transcript_answer,omitempty"`
	GeneralAnswer    string `json:"general_answer,omitempty"`
}

// AnalyzeResponse is returned by POST /api/analyze
type AnalyzeResponse struct {
	Status    string       `json:"status"`
	Analysis  AnalysisData `json:"analysis"`
	VideoID   string       `json:"video_id"`
	Timestamp time.Time    `json:"timestamp"`
}

// AnalysisData is the analysis part of AnalyzeResponse
type AnalysisData struct {
	Summary    string   `json:"summary"`
	KeyPoints  []string `json:"key_points"`
	Language   string   `json:"language"`
	Transcript string   `json:"transcript"`
	Indexed    bool     `json:"indexed"`
}

// UsageResponse is returned by GET /api/usage
type UsageResponse struct {
	Status     string       `json:"status"`
	Metrics    UsageMetrics `json:"metrics"`
	ServerTime time.Time    `json:"server_time"`
}

// UsageMetrics reports generation usage
type UsageMetrics struct {
	TotalRequests   int64      `json:"total_requests"`
	QuotaFailures   int64      `json:"quota_failures"`
	CacheHits       int        `json:"cache_hits"`
	LastRequestTime *time.Time `json:"last_request_time"`
	CurrentModel    string     `json:"current_model"`
}

// StatusResponse is returned by GET /api/status/:video_id
type StatusResponse struct {
	Status           string    `json:"status"`
	VideoID          string    `json:"video_id"`
	Indexed          bool      `json:"indexed"`
	TranscriptStored bool      `json:"transcript_stored"`
	TranscriptSource string    `json:"transcript_source,omitempty"`
	TranscriptLength int       `json:"transcript_length"`
	SummaryCached    bool      `json:"summary_cached"`
	LastUpdated      time.Time `json:"last_updated"`
}
