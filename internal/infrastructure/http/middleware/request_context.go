package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/johnquangdev/ytbuddy/pkg/reqcontext"
)

// RequestIDKey is the echo context key holding the request id
const RequestIDKey = "request_id"

// EchoRequestContext tags every request with an id, taken from X-Request-ID
// when the client sent one, and echoes it back in the response.
func EchoRequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := reqcontext.Begin(req.Context(), req.Header.Get(echo.HeaderXRequestID), req.Method+" "+c.Path())
			id := reqcontext.GetRequestID(ctx)

			req.Header.Set(echo.HeaderXRequestID, id)
			c.SetRequest(req.WithContext(ctx))
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.Set(RequestIDKey, id)

			return next(c)
		}
	}
}

// ZapAccessLog logs one line per request. A handler error is passed to the
// echo error handler first, so the logged status is the one sent, and then
// returned unchanged. Register ZapRecover after it so panics get a line too.
func ZapAccessLog(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			if logger != nil {
				fields := append(reqcontext.Fields(c.Request().Context()),
					zap.Int("status", c.Response().Status),
					zap.Duration("latency", time.Since(start)),
				)
				if err != nil {
					fields = append(fields, zap.Error(err))
				}
				logger.Info("http.request", fields...)
			}
			return err
		}
	}
}

// ZapRecover turns panics into errors returned up the chain and logs the stack
func ZapRecover(logger *zap.Logger) echo.MiddlewareFunc {
	return echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableErrorHandler: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			if logger != nil {
				fields := append(reqcontext.Fields(c.Request().Context()),
					zap.Error(err),
					zap.ByteString("stack", stack),
				)
				logger.Error("💥 Panic recovered", fields...)
			}
			return err
		},
	})
}
