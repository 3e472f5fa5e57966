package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/handler"
	apperrors "github.com/Bhadra-Indranil/HealthCare-System/pkg/errors"
)

// ErrorHandler renders errors attached to the gin context that no
// handler turned into a response itself.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("request error")
		}

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last().Err
		if appErr, ok := apperrors.As(lastErr); ok {
			c.JSON(appErr.StatusCode(), handler.NewErrorResponse(appErr.Message))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("Internal server error"))
	}
}
