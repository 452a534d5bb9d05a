package handler

import (
	"context"
	stdErrors "errors"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/ytbuddy/errors"
	"github.com/johnquangdev/ytbuddy/internal/adapter/dto/video"
	"github.com/johnquangdev/ytbuddy/internal/adapter/presenter"
	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	videouse "github.com/johnquangdev/ytbuddy/internal/usecase/video"
	"github.com/johnquangdev/ytbuddy/pkg/validator"
	"github.com/johnquangdev/ytbuddy/pkg/youtubeurl"
)

// UsageReporter exposes generation usage. *ai.Gateway implements it.
type UsageReporter interface {
	Usage(ctx context.Context) entities.Usage
}

// VideoHandler serves analysis, status and usage endpoints
type VideoHandler struct {
	svc    videouse.Service
	usage  UsageReporter
	clock  clock.Clock
	logger *zap.Logger
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(svc videouse.Service, usage UsageReporter, clk clock.Clock, logger *zap.Logger) *VideoHandler {
	if clk == nil {
		clk = clock.New()
	}
	return &VideoHandler{svc: svc, usage: usage, clock: clk, logger: logger}
}

// Analyze summarizes the video at the given URL and prepares it for questions
// @Summary      Analyze a video
// @Description  Fetches the transcript, generates a summary and key points, and indexes the transcript for questions
// @Tags         Video
// @Accept       json
// @Produce      json
// @Param        request  body      video.AnalyzeRequest                                     true  "YouTube URL"
// @Success      200      {object}  common.SuccessResponse{data=video.AnalyzeResponse}  "Analysis"
// @Failure      400      {object}  common.ErrorResponse                                     "Invalid payload or URL"
// @Failure      404      {object}  common.ErrorResponse                                     "No transcript available"
// @Failure      500      {object}  common.ErrorResponse                                     "Request canceled or internal error"
// @Router       /analyze [post]
func (h *VideoHandler) Analyze(c echo.Context) error {
	var req video.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidVideoURL(req.URL))
	}

	analysis, err := h.svc.Analyze(c.Request().Context(), req.URL)
	if err != nil {
		if stdErrors.Is(err, youtubeurl.ErrNoVideoID) {
			return HandleError(h.logger, c, errors.ErrInvalidVideoURL(req.URL))
		}
		videoID, _ := youtubeurl.ExtractVideoID(req.URL)
		return HandleError(h.logger, c, toAppError(err, videoID))
	}

	return HandleSuccess(h.logger, c, presenter.ToAnalyzeResponse(analysis))
}

// Status reports what is prepared for a video
// @Summary      Video status
// @Description  Reports whether the video is indexed, its transcript stored and its summary cached
// @Tags         Video
// @Produce      json
// @Param        video_id  path      string                                                 true  "YouTube video id (11 characters)"
// @Success      200       {object}  common.SuccessResponse{data=video.StatusResponse}  "Status"
// @Failure      400       {object}  common.ErrorResponse                                   "Invalid video id"
// @Failure      500       {object}  common.ErrorResponse                                   "Storage failure"
// @Router       /status/{video_id} [get]
func (h *VideoHandler) Status(c echo.Context) error {
	videoID := c.Param("video_id")
	if !validator.IsVideoID(videoID) {
		return HandleError(h.logger, c, errors.ErrInvalidVideoID(videoID))
	}

	status, err := h.svc.Status(c.Request().Context(), videoID)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, videoID))
	}

	return HandleSuccess(h.logger, c, presenter.ToStatusResponse(status, h.clock.Now()))
}

// Usage reports generation usage metrics
// @Summary      Generation usage
// @Description  Reports generation usage counters and the current model
// @Tags         Video
// @Produce      json
// @Success      200  {object}  common.SuccessResponse{data=video.UsageResponse}  "Usage metrics"
// @Router       /usage [get]
func (h *VideoHandler) Usage(c echo.Context) error {
	u := h.usage.Usage(c.Request().Context())
	return HandleSuccess(h.logger, c, presenter.ToUsageResponse(u, h.clock.Now()))
}
