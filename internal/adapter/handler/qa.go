package handler

import (
	stdErrors "errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/ytbuddy/errors"
	"github.com/johnquangdev/ytbuddy/internal/adapter/dto/video"
	"github.com/johnquangdev/ytbuddy/internal/adapter/presenter"
	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/internal/usecase/qa"
)

// QAHandler answers questions about videos
type QAHandler struct {
	svc    qa.Service
	logger *zap.Logger
}

// NewQAHandler creates a new QA handler
func NewQAHandler(svc qa.Service, logger *zap.Logger) *QAHandler {
	return &QAHandler{svc: svc, logger: logger}
}

// Ask answers a question about a video
// @Summary      Ask about a video
// @Description  Buddy questions get general answers, "beyond the transcript" questions get a transcript answer plus a general supplement, others are answered from the transcript only
// @Tags         QA
// @Accept       json
// @Produce      json
// @Param        request  body      video.AskRequest                                     true  "Video id and question"
// @Success      200      {object}  common.SuccessResponse{data=video.AskResponse}  "Answer"
// @Failure      400      {object}  common.ErrorResponse                                 "Invalid payload, video id or question"
// @Failure      404      {object}  common.ErrorResponse                                 "No transcript available"
// @Failure      429      {object}  common.ErrorResponse                                 "AI quota exceeded"
// @Failure      502      {object}  common.ErrorResponse                                 "AI generation failed"
// @Failure      500      {object}  common.ErrorResponse                                 "Index or storage failure"
// @Router       /ask [post]
func (h *QAHandler) Ask(c echo.Context) error {
	var req video.AskRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		field, tag, ok := firstInvalidField(err)
		switch {
		case !ok:
			return HandleError(h.logger, c, errors.ErrInvalidPayload())
		case field == "VideoID":
			return HandleError(h.logger, c, errors.ErrInvalidVideoID(req.VideoID))
		default:
			return HandleError(h.logger, c, errors.ErrInvalidQuestion(tag))
		}
	}

	result, err := h.svc.AnswerQuestion(c.Request().Context(), req.VideoID, req.Question)
	if err != nil {
		if stdErrors.Is(err, entities.ErrInvalidInput) {
			return HandleError(h.logger, c, errors.ErrInvalidQuestion(err.Error()))
		}
		return HandleError(h.logger, c, toAppError(err, req.VideoID))
	}

	return HandleSuccess(h.logger, c, presenter.ToAskResponse(result))
}
