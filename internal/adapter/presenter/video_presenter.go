package presenter

import (
	"strings"
	"time"

	"github.com/johnquangdev/ytbuddy/internal/adapter/dto/common"
	"github.com/johnquangdev/ytbuddy/internal/adapter/dto/video"
	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

const (
	markerGeneral    = "Answer:"
	markerTranscript = "Based on the video:"
	markerBeyond     = "Beyond the video:"
)

// SplitAnswer maps a formatted answer text to its response sections
func SplitAnswer(text string) video.AskData {
	switch {
	case strings.Contains(text, markerTranscript) && strings.Contains(text, markerBeyond):
		rest := text[strings.Index(text, markerTranscript)+len(markerTranscript):]
		transcriptPart, generalPart, _ := strings.Cut(rest, markerBeyond)
		return video.AskData{
			Type:             video.AnswerTypeBeyond,
			TranscriptAnswer: strings.TrimSpace(transcriptPart),
			GeneralAnswer:    strings.TrimSpace(generalPart),
		}
	case strings.Contains(text, markerTranscript):
		return video.AskData{
			Type:   video.AnswerTypeDefault,
			Answer: strings.TrimSpace(strings.Replace(text, markerTranscript, "", 1)),
		}
	case strings.HasPrefix(text, markerGeneral):
		return video.AskData{
			Type:   video.AnswerTypeBuddy,
			Answer: strings.TrimSpace(strings.TrimPrefix(text, markerGeneral)),
		}
	default:
		return video.AskData{Type: video.AnswerTypeDefault, Answer: text}
	}
}

// ToAskResponse converts an AnswerResult to AskResponse
func ToAskResponse(r *entities.AnswerResult) *video.AskResponse {
	if r == nil {
		return nil
	}
	return &video.AskResponse{
		Status:      common.StatusSuccess,
		Data:        SplitAnswer(r.Text),
		VideoID:     r.VideoID,
		Mode:        string(r.Mode),
		Outcome:     string(r.Outcome),
		GeneratedAt: r.GeneratedAt,
	}
}

// ToAnalyzeResponse converts an Analysis to AnalyzeResponse
func ToAnalyzeResponse(a *entities.Analysis) *video.AnalyzeResponse {
	if a == nil {
		return nil
	}
	keyPoints := a.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	return &video.AnalyzeResponse{
		Status: common.StatusSuccess,
		Analysis: video.AnalysisData{
			Summary:    a.Summary,
			KeyPoints:  keyPoints,
			Language:   a.Language,
			Transcript: a.Transcript,
			Indexed:    a.Indexed,
		},
		VideoID:   a.VideoID,
		Timestamp: a.GeneratedAt,
	}
}

// ToUsageResponse converts a Usage snapshot to UsageResponse
func ToUsageResponse(u entities.Usage, now time.Time) *video.UsageResponse {
	return &video.UsageResponse{
		Status: common.StatusSuccess,
		Metrics: video.UsageMetrics{
			TotalRequests:   u.TotalCalls,
			QuotaFailures:   u.QuotaFailures,
			CacheHits:       u.ValidCacheEntries,
			LastRequestTime: u.LastCallAt,
			CurrentModel:    u.Model,
		},
		ServerTime: now,
	}
}

// ToStatusResponse converts a VideoStatus to StatusResponse
func ToStatusResponse(s *entities.VideoStatus, now time.Time) *video.StatusResponse {
	if s == nil {
		return nil
	}
	state := "pending"
	if s.Indexed {
		state = "completed"
	}
	return &video.StatusResponse{
		Status:           state,
		VideoID:          s.VideoID,
		Indexed:          s.Indexed,
		TranscriptStored: s.TranscriptStored,
		TranscriptSource: s.TranscriptSource,
		TranscriptLength: s.TranscriptLength,
		SummaryCached:    s.SummaryCached,
		LastUpdated:      now,
	}
}
