package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/handler"
)

// Timeout bounds request processing. Handlers observe cancellation
// through the request context.
func Timeout(duration time.Duration) gin.HandlerFunc {
	if duration <= 0 {
		duration = 30 * time.Second
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), duration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		done := make(chan struct{})
		go func() {
			c.Next()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				c.AbortWithStatusJSON(http.StatusGatewayTimeout, handler.NewErrorResponse("Request timeout"))
			}
		}
	}
}
