package qa

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

// Answer markers
const (
	markerGeneral    = "Answer:"
	markerTranscript = "Based on the video:"
	markerBeyond     = "Beyond the video:"
)

// Fixed answers
const (
	textGeneralFailure  = "I couldn't answer your question in Buddy mode right now."
	textNoTranscript    = "No transcript available for this video."
	textNoAnswer        = "The transcript does not contain an answer to this question."
	textLowConfidence   = "The video doesn't specifically mention this, but it discusses: "
	textGroundedFailure = "I couldn't process your question at this time."
	textIndexFailure    = "Sorry, I couldn't prepare this video for questions right now. Please try again later."
)

var lowConfidenceMarkers = []string{"i don't know", "i'm not sure"}

// noAnswerPhrase is how transcript replies without an answer begin, whatever
// the model writes after it
const noAnswerPhrase = "the transcript does not contain"

const generalPrompt = `You are Buddy Mode AI. Ignore any video transcript. Answer naturally using your general knowledge only.

User Question: %s`

const groundedPrompt = `# GOAL
Answer the user's question strictly based on the provided video transcript.
Start your answer with "Based on the video:".
If no relevant answer is found, clearly state: "The transcript does not contain an answer to this question."

CONTEXT:
<transcript>
%s
</transcript>

USER QUESTION:
%s

FINAL ANSWER:`

const supplementPrompt = `Provide a helpful, factual answer using only general knowledge for this question: %s`

func buildGeneralPrompt(question string) string {
	return fmt.Sprintf(generalPrompt, question)
}

func buildGroundedPrompt(question string, passages []entities.Passage) string {
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, strings.TrimSpace(p.Text))
	}
	return fmt.Sprintf(groundedPrompt, strings.Join(parts, "\n\n"), question)
}

func buildSupplementPrompt(question string) string {
	return fmt.Sprintf(supplementPrompt, question)
}

// stripMarker removes a leading marker the model was asked to write itself
func stripMarker(text, marker string) string {
	text = strings.TrimSpace(text)
	if len(text) >= len(marker) && strings.EqualFold(text[:len(marker)], marker) {
		text = strings.TrimSpace(text[len(marker):])
	}
	return text
}

func isLowConfidence(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range lowConfidenceMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// lacksAnswer reports whether a transcript answer says the transcript had nothing
func lacksAnswer(text string) bool {
	lower := strings.ToLower(stripMarker(text, markerTranscript))
	return strings.Contains(lower, noAnswerPhrase) || isLowConfidence(lower)
}
