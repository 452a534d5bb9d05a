package video

// AskRequest is the body of POST /api/ask
type AskRequest struct {
	VideoID  string `json:"video_id" validate:"required,videoid"`
	Question string `json:"question" validate:"required,notblank,max=500"`
}

// AnalyzeRequest is the body of POST /api/analyze
type AnalyzeRequest struct {
	URL string `json:"url" validate:"required,notblank"`
}
