package entities

import "time"

// AnswerMode selects how a question is answered
type AnswerMode string

const (
	// ModeGeneral answers from general knowledge and ignores the transcript
	ModeGeneral AnswerMode = "general"
	// ModeGrounded answers strictly from retrieved transcript passages
	ModeGrounded AnswerMode = "grounded"
	// ModeHybrid answers from the transcript, supplemented by general knowledge
	ModeHybrid AnswerMode = "hybrid"
)

// Outcome records which branch produced an answer
type Outcome string

const (
	OutcomeAnswered      Outcome = "answered"
	OutcomeLowConfidence Outcome = "low_confidence"
	OutcomeSupplemented  Outcome = "supplemented"
	OutcomeNoTranscript  Outcome = "no_transcript"
	OutcomeFailed        Outcome = "failed"
)

// AnswerResult is what the orchestrator returns for one question
type AnswerResult struct {
	VideoID     string     `json:"video_id"`
	Mode        AnswerMode `json:"mode"`
	Text        string     `json:"text"`
	Outcome     Outcome    `json:"outcome"`
	GeneratedAt time.Time  `json:"generated_at"`
}
