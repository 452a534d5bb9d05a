package entities

// Chunk is one window of a transcript. Ordinal is its position in the transcript.
type Chunk struct {
	VideoID string `json:"video_id"`
	Ordinal int    `json:"ordinal"`
	Text    string `json:"text"`
}

// Passage is a chunk returned from a similarity search
type Passage struct {
	Chunk
	Score float64 `json:"score"`
}

// IndexHandle refers to a built, searchable index for one video
type IndexHandle struct {
	VideoID string
}
