package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

type stubIndexer struct {
	ensureErr   error
	retrieveErr error
}

func (s stubIndexer) EnsureIndex(_ context.Context, videoID string) (entities.IndexHandle, error) {
	return entities.IndexHandle{VideoID: videoID}, s.ensureErr
}

func (s stubIndexer) Retrieve(context.Context, entities.IndexHandle, string, int) ([]entities.Passage, error) {
	if s.retrieveErr != nil {
		return nil, s.retrieveErr
	}
	return []entities.Passage{{Chunk: entities.Chunk{Text: "The sky is blue."}}}, nil
}

func TestCompose(t *testing.T) {
	quota := fmt.Errorf("%w: 429", entities.ErrQuotaExceeded)

	tests := []struct {
		name     string
		mode     entities.AnswerMode
		indexer  stubIndexer
		reply    map[string]string
		fail     map[string]error
		wantText string
		want     entities.Outcome
	}{
		{
			name:     "general failure",
			mode:     entities.ModeGeneral,
			fail:     map[string]error{"general": quota},
			wantText: textGeneralFailure,
			want:     entities.OutcomeFailed,
		},
		{
			name:     "general strips duplicate marker",
			mode:     entities.ModeGeneral,
			reply:    map[string]string{"general": "Answer: four"},
			wantText: "Answer: four",
			want:     entities.OutcomeAnswered,
		},
		{
			name:     "empty grounded answer",
			mode:     entities.ModeGrounded,
			reply:    map[string]string{"grounded": "   "},
			wantText: "Based on the video: " + textNoAnswer,
			want:     entities.OutcomeAnswered,
		},
		{
			name:     "low confidence",
			mode:     entities.ModeGrounded,
			reply:    map[string]string{"grounded": "I'm not sure, it talks about colors."},
			wantText: "Based on the video: " + textLowConfidence + "I'm not sure, it talks about colors.",
			want:     entities.OutcomeLowConfidence,
		},
		{
			name:     "grounded generation failure",
			mode:     entities.ModeGrounded,
			fail:     map[string]error{"grounded": errors.New("exhausted")},
			wantText: textGroundedFailure,
			want:     entities.OutcomeFailed,
		},
		{
			name:     "index build failure",
			mode:     entities.ModeGrounded,
			indexer:  stubIndexer{ensureErr: entities.ErrIndexBuild},
			wantText: textIndexFailure,
			want:     entities.OutcomeFailed,
		},
		{
			name:     "retrieval failure",
			mode:     entities.ModeHybrid,
			indexer:  stubIndexer{retrieveErr: entities.ErrIndexNotFound},
			wantText: textGroundedFailure,
			want:     entities.OutcomeFailed,
		},
		{
			name:     "supplement failure",
			mode:     entities.ModeHybrid,
			fail:     map[string]error{"supplement": quota},
			wantText: "Based on the video: " + textNoAnswer,
			want:     entities.OutcomeLowConfidence,
		},
		{
			name:     "hybrid low confidence supplements",
			mode:     entities.ModeHybrid,
			reply:    map[string]string{"grounded": "I don't know.", "supplement": "Paris."},
			wantText: "Based on the video: I don't know.\n\nBeyond the video: Paris.",
			want:     entities.OutcomeSupplemented,
		},
		{
			name:     "no answer without period supplements",
			mode:     entities.ModeHybrid,
			reply:    map[string]string{"grounded": "Based on the video: The transcript does not contain an answer to this question", "supplement": "Paris."},
			wantText: "Based on the video: The transcript does not contain an answer to this question\n\nBeyond the video: Paris.",
			want:     entities.OutcomeSupplemented,
		},
		{
			name:     "lowercase no answer supplements",
			mode:     entities.ModeHybrid,
			reply:    map[string]string{"grounded": "the transcript does not contain an answer to this question.", "supplement": "Paris."},
			wantText: "Based on the video: the transcript does not contain an answer to this question.\n\nBeyond the video: Paris.",
			want:     entities.OutcomeSupplemented,
		},
		{
			name:     "paraphrased no answer supplements",
			mode:     entities.ModeHybrid,
			reply:    map[string]string{"grounded": "The transcript does not contain information about France.", "supplement": "Paris."},
			wantText: "Based on the video: The transcript does not contain information about France.\n\nBeyond the video: Paris.",
			want:     entities.OutcomeSupplemented,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &scenarioGenerator{reply: tt.reply, fail: tt.fail}
			c := NewComposer(gen, tt.indexer, DefaultTopK, nil)

			got := c.Compose(context.Background(), tt.mode, testVideoID, "question?")
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.Outcome != tt.want {
				t.Errorf("Outcome = %s, want %s", got.Outcome, tt.want)
			}
		})
	}
}

func TestLacksAnswer(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{textNoAnswer, true},
		{"Based on the video: The transcript does not contain an answer to this question", true},
		{"THE TRANSCRIPT DOES NOT CONTAIN that.", true},
		{"Sadly the transcript does not contain any dates.", true},
		{"I don't know.", true},
		{"The sky is blue.", false},
		{"Based on the video: The transcript covers colors.", false},
	}
	for _, tt := range tests {
		if got := lacksAnswer(tt.text); got != tt.want {
			t.Errorf("lacksAnswer(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestGroundedPromptCarriesPassages(t *testing.T) {
	p := buildGroundedPrompt("What color?", []entities.Passage{
		{Chunk: entities.Chunk{Text: " first "}},
		{Chunk: entities.Chunk{Text: "second"}},
	})
	if !strings.Contains(p, "first\n\nsecond") {
		t.Errorf("prompt does not join passages: %q", p)
	}
	if !strings.Contains(p, `Start your answer with "Based on the video:"`) {
		t.Error("prompt should ask for the transcript marker")
	}
	if !strings.Contains(p, textNoAnswer) {
		t.Error("prompt should carry the no-answer sentence")
	}
}
