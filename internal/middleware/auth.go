package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/handler"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/service/auth"
	apperrors "github.com/Bhadra-Indranil/HealthCare-System/pkg/errors"
)

const accountContextKey = "account"

// Authenticate validates the bearer token and loads the live account,
// so a deactivated account is rejected on its next request even with a
// valid token.
func Authenticate(authSvc auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("Authorization token required"))
			return
		}

		account, err := authSvc.Verify(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			message := "Invalid token"
			if appErr, ok := apperrors.As(err); ok {
				message = appErr.Message
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse(message))
			return
		}

		c.Set(accountContextKey, account)
		c.Next()
	}
}

// RequireRoles rejects requests whose authenticated account is outside
// the allowed set. Roles are a flat enum; there is no hierarchy.
func RequireRoles(allowed ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := CurrentAccount(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("Authorization token required"))
			return
		}
		if !account.Role.In(allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// CurrentAccount returns the authenticated account set by Authenticate.
func CurrentAccount(c *gin.Context) (*model.Account, bool) {
	v, ok := c.Get(accountContextKey)
	if !ok {
		return nil, false
	}
	account, ok := v.(*model.Account)
	return account, ok
}
