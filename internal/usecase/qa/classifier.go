package qa

import (
	"strings"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

const (
	generalTrigger = "buddy"
	hybridTrigger  = "beyond the transcript"
)

// Classify picks the answer mode from the question text alone
func Classify(question string) entities.AnswerMode {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, generalTrigger):
		return entities.ModeGeneral
	case strings.HasPrefix(q, hybridTrigger):
		return entities.ModeHybrid
	default:
		return entities.ModeGrounded
	}
}
