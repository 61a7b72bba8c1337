package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/patentdesk/backend/internal/http/response"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/services"
)

// RequireAdmin guards the review console routes with a bearer token issued
// by AuthService.Login.
func RequireAdmin(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" || token == header {
			response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", pkgerrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, err := auth.VerifyToken(token)
		if err != nil {
			response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", pkgerrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set("admin_username", claims.Username)
		c.Next()
	}
}
