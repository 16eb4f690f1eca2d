package middleware

import (
	"log/slog"
	"net/http"

	"stock-notifier/internal/handler/httperr"
	"stock-notifier/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders errors left on the context by handlers that did not
// write a response, and logs server-side failures with their cause.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if resp, ok := lastPublic(c); ok && resp.Status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"request_id", GetRequestID(c),
				"path", c.Request.URL.Path,
				"status", resp.Status,
				"error", resp.Cause(),
			)
		}

		if c.Writer.Written() {
			return
		}
		if resp, ok := lastPublic(c); ok {
			c.JSON(resp.Status, resp)
			return
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		if len(c.Errors) > 0 {
			logger.Error("unhandled request error", "request_id", GetRequestID(c), "error", c.Errors.Last().Err)
		}
		c.JSON(http.StatusInternalServerError, httperr.Internal())
	}
}

func lastPublic(c *gin.Context) (httperr.Response, bool) {
	for i := len(c.Errors) - 1; i >= 0; i-- {
		err := c.Errors[i]
		if !err.IsType(gin.ErrorTypePublic) {
			continue
		}
		if resp, ok := err.Meta.(httperr.Response); ok {
			return resp, true
		}
	}
	return httperr.Response{}, false
}

// CustomRecovery must be the outermost middleware.
func CustomRecovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("recovered from panic",
					"error", rec,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c),
					"stack", errs.ExtractStackLines(errs.Newf("panic: %v", rec), 12),
				)
				resp := httperr.Internal()
				c.AbortWithStatusJSON(resp.Status, resp)
			}
		}()
		c.Next()
	}
}
