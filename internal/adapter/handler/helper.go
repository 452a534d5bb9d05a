package handler

import (
	"context"
	stdErrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/ytbuddy/errors"
	"github.com/johnquangdev/ytbuddy/internal/adapter/dto/common"
	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/pkg/reqcontext"
)

// getRequestID reads the request id set by the request context middleware,
// falling back to the X-Request-ID header
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := reqcontext.GetRequestID(c.Request().Context()); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// toAppError maps domain errors to transport errors
func toAppError(err error, videoID string) errors.AppError {
	var appErr errors.AppError
	switch {
	case stdErrors.As(err, &appErr):
		return appErr
	case stdErrors.Is(err, entities.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, entities.ErrNoTranscriptAvailable):
		return errors.ErrTranscriptUnavailable(videoID)
	case stdErrors.Is(err, entities.ErrQuotaExceeded):
		return errors.ErrAIQuotaExceeded()
	case stdErrors.Is(err, entities.ErrGeneration):
		return errors.ErrAIGenerationFailed(err)
	case stdErrors.Is(err, entities.ErrIndexBuild):
		return errors.ErrIndexFailed(videoID, err)
	case stdErrors.Is(err, entities.ErrTranscriptNotFound):
		return errors.ErrNotFound("transcript").WithDetail("video_id", videoID)
	case stdErrors.Is(err, entities.ErrIndexNotFound):
		return errors.ErrNotFound("index").WithDetail("video_id", videoID)
	case stdErrors.Is(err, entities.ErrStorage):
		return errors.ErrStorageFailed("transcript lookup", err)
	case stdErrors.Is(err, context.Canceled), stdErrors.Is(err, context.DeadlineExceeded):
		return errors.ErrProcessingFailed(err)
	default:
		return errors.ErrInternal(err)
	}
}

// firstInvalidField returns the struct field name of the first validation failure
func firstInvalidField(err error) (field, tag string, ok bool) {
	var verrs validator.ValidationErrors
	if !stdErrors.As(err, &verrs) || len(verrs) == 0 {
		return "", "", false
	}
	return verrs[0].Field(), verrs[0].Tag(), true
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	ok := errors.HTTPStatusOK("success")
	resp := common.SuccessResponse{
		Code:    int(ok.Code),
		Message: ok.Message,
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(ok.HTTPCode, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := common.ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := common.ErrorResponse{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}
